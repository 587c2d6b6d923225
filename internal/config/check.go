package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/manifest"
)

// ErrInvalidValue is the sentinel every ValueError unwraps to.
var ErrInvalidValue = errors.New("invalid config value")

// ValueError reports a supplied value that does not satisfy its field
// declaration. It names the field and never the value, which may be a
// secret.
type ValueError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Section, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidValue.
func (e *ValueError) Unwrap() error {
	return ErrInvalidValue
}

// CheckUserValues checks values against user_config declarations: every
// value names a declared field, required fields have a value or default,
// numbers parse and respect min/max, enums match and booleans are
// true or false. All problems are returned joined, in field order.
func CheckUserValues(fields map[string]manifest.UserConfigField, values map[string]string) error {
	var errs []error
	bad := func(name, format string, args ...any) {
		errs = append(errs, &ValueError{Section: SectionUser, Field: name, Reason: fmt.Sprintf(format, args...)})
	}

	for _, name := range sortedKeys(values) {
		if _, ok := fields[name]; !ok {
			bad(name, "not declared in user_config")
		}
	}

	for _, name := range sortedKeys(fields) {
		f := fields[name]
		v, ok := values[name]
		if !ok {
			if _, hasDefault := f.DefaultString(); f.IsRequired() && !hasDefault {
				bad(name, "required but no value supplied")
			}
			continue
		}
		switch f.Type {
		case manifest.UserNumber:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				bad(name, "must be a number")
				continue
			}
			if f.Min != nil && n < *f.Min {
				bad(name, "must be at least %s", strconv.FormatFloat(*f.Min, 'f', -1, 64))
			}
			if f.Max != nil && n > *f.Max {
				bad(name, "must be at most %s", strconv.FormatFloat(*f.Max, 'f', -1, 64))
			}
		case manifest.UserBoolean:
			if v != "true" && v != "false" {
				bad(name, "must be true or false")
			}
		case manifest.UserString:
			if len(f.Enum) > 0 && !slices.Contains(f.Enum, v) {
				bad(name, "must be one of the declared enum values")
			}
		}
	}
	return errors.Join(errs...)
}

// CheckSystemValues checks values against system_config declarations.
// Ports must be integers in 1-65535.
func CheckSystemValues(fields map[string]manifest.SystemConfigField, values map[string]string) error {
	var errs []error
	bad := func(name, reason string) {
		errs = append(errs, &ValueError{Section: SectionSystem, Field: name, Reason: reason})
	}

	for _, name := range sortedKeys(values) {
		if _, ok := fields[name]; !ok {
			bad(name, "not declared in system_config")
		}
	}

	for _, name := range sortedKeys(fields) {
		f := fields[name]
		v, ok := values[name]
		if !ok {
			if _, hasDefault := f.DefaultString(); f.IsRequired() && !hasDefault {
				bad(name, "required but no value supplied")
			}
			continue
		}
		if f.Type == manifest.SystemPort {
			if p, err := strconv.Atoi(v); err != nil || p < 1 || p > 65535 {
				bad(name, "must be a port number between 1 and 65535")
			}
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
