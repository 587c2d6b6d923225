package template

import (
	"slices"

	"github.com/thoreinstein/mcpb/internal/manifest"
)

// Declarations are the config fields a manifest makes available to
// placeholders.
type Declarations struct {
	User   map[string]manifest.UserConfigField
	System map[string]manifest.SystemConfigField
}

// DeclarationsOf collects the user_config and system_config fields of m.
func DeclarationsOf(m *manifest.Manifest) Declarations {
	return Declarations{User: m.UserConfig, System: m.SystemConfig}
}

// Check reports whether every part of e names something that exists:
// a known function, a known namespace, a declared field or a builtin.
// It does not look at values.
func (d Declarations) Check(e Expr) error {
	if e.Func != "" {
		if _, ok := funcArity[e.Func]; !ok {
			return &DeclarationError{Name: e.Func, Kind: "function"}
		}
	}
	for _, ref := range e.Refs() {
		if err := d.CheckRef(ref); err != nil {
			return err
		}
	}
	return nil
}

// CheckRef is Check for a single reference.
func (d Declarations) CheckRef(ref Ref) error {
	switch ref.Namespace {
	case "":
		if !IsBuiltin(ref.Name) {
			return &DeclarationError{Name: ref.Name, Kind: "builtin"}
		}
	case NSUserConfig:
		if _, ok := d.User[ref.Name]; !ok {
			return &ReferenceError{Field: ref.Name, Ref: ref, Err: ErrUndeclaredField}
		}
	case NSSystemConfig:
		if _, ok := d.System[ref.Name]; !ok {
			return &ReferenceError{Field: ref.Name, Ref: ref, Err: ErrUndeclaredField}
		}
	case NSPlatform:
		if !slices.Contains(platformKeys, ref.Name) {
			return &DeclarationError{Name: ref.String(), Kind: "platform variable"}
		}
	case NSOAuth:
		if !slices.Contains(oauthKeys, ref.Name) {
			return &DeclarationError{Name: ref.String(), Kind: "oauth variable"}
		}
	default:
		return &DeclarationError{Name: ref.Namespace, Kind: "namespace"}
	}
	return nil
}

// sensitive reports whether values of ref must be masked.
func (d Declarations) sensitive(ref Ref) bool {
	switch ref.Namespace {
	case NSUserConfig:
		return d.User[ref.Name].IsSensitive()
	case NSOAuth:
		return true
	}
	return false
}
