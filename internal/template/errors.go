package template

import (
	"fmt"

	"github.com/thoreinstein/mcpb/internal/errors"
)

// Sentinel errors. Typed errors below unwrap to one of these.
var (
	ErrSyntax      = errors.New("malformed placeholder")
	ErrDeclaration = errors.New("unknown variable namespace")
	ErrReference   = errors.New("unresolved reference")

	// Reference failures also match ErrReference.
	ErrUndeclaredField = errors.Wrap(ErrReference, "undeclared field")
	ErrRequiredMissing = errors.Wrap(ErrReference, "required field has no value")
	ErrNoValue         = errors.Wrap(ErrReference, "field has no value or default")
	ErrUnavailable     = errors.Wrap(ErrReference, "builtin not available")
)

// SyntaxError reports a placeholder that cannot be scanned or parsed.
// Offset is the byte offset of the offending "${" in the field value.
type SyntaxError struct {
	Path   string
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: at offset %d: %s", e.Path, e.Offset, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// DeclarationError reports an expression naming a namespace, builtin or
// function the resolver does not know.
type DeclarationError struct {
	Path string
	Name string
	Kind string
}

func (e *DeclarationError) Error() string {
	msg := fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
	if e.Path == "" {
		return msg
	}
	return e.Path + ": " + msg
}

func (e *DeclarationError) Unwrap() error { return ErrDeclaration }

// ReferenceError reports a reference that cannot be given a value.
// It names the config location and the field, never a value.
type ReferenceError struct {
	Path  string
	Field string
	Ref   Ref
	Err   error
}

func (e *ReferenceError) Error() string {
	var msg string
	switch e.Err {
	case ErrUndeclaredField:
		msg = fmt.Sprintf("%s field %q is not declared", e.Ref.Namespace, e.Field)
	case ErrRequiredMissing:
		msg = fmt.Sprintf("required %s field %q has no value", e.Ref.Namespace, e.Field)
	case ErrNoValue:
		msg = fmt.Sprintf("%s field %q has no value and no default", e.Ref.Namespace, e.Field)
	default:
		msg = fmt.Sprintf("%q is not available", e.Ref.String())
	}
	if e.Path == "" {
		return msg
	}
	return e.Path + ": " + msg
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// withPath stamps the config location onto a typed error.
func withPath(err error, path string) error {
	var (
		se *SyntaxError
		de *DeclarationError
		re *ReferenceError
	)
	switch {
	case errors.As(err, &se):
		se.Path = path
	case errors.As(err, &de):
		de.Path = path
	case errors.As(err, &re):
		re.Path = path
	}
	return err
}
