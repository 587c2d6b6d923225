package template

import (
	"slices"
	"strconv"
	"strings"
)

// Namespaces a reference may use.
const (
	NSUserConfig   = "user_config"
	NSSystemConfig = "system_config"
	NSPlatform     = "platform"
	NSOAuth        = "oauth"
)

// Template functions.
const (
	FuncBase64    = "base64"
	FuncBasicAuth = "basicAuth"
)

// builtinNames are the bare references computed from the environment.
var builtinNames = []string{"__dirname", "HOME", "DESKTOP", "DOCUMENTS", "DOWNLOADS"}

// platformKeys are the names under the platform namespace.
var platformKeys = []string{"os", "arch", "path_sep"}

// oauthKeys are the names under the oauth namespace.
var oauthKeys = []string{"access_token", "token_type"}

var funcArity = map[string]int{
	FuncBase64:    1,
	FuncBasicAuth: 2,
}

// IsBuiltin reports whether name is a bare builtin such as __dirname.
func IsBuiltin(name string) bool {
	return slices.Contains(builtinNames, name)
}

// BuiltinNames returns the bare builtin names.
func BuiltinNames() []string {
	return slices.Clone(builtinNames)
}

// Ref is a variable reference. Namespace is empty for a bare builtin.
type Ref struct {
	Namespace string
	Name      string
}

func (r Ref) String() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// Arg is a function argument: either a reference or a quoted literal.
type Arg struct {
	Ref       Ref
	Literal   string
	IsLiteral bool
}

// Expr is a parsed placeholder body. Func is empty for a plain reference,
// in which case Ref holds it.
type Expr struct {
	Ref  Ref
	Func string
	Args []Arg
}

// Refs lists the references the expression reads.
func (e Expr) Refs() []Ref {
	if e.Func == "" {
		return []Ref{e.Ref}
	}
	var refs []Ref
	for _, a := range e.Args {
		if !a.IsLiteral {
			refs = append(refs, a.Ref)
		}
	}
	return refs
}

// parseExpr parses a trimmed placeholder body. It returns a non-empty
// reason when the text is not well formed.
func parseExpr(raw string) (Expr, string) {
	open := strings.IndexByte(raw, '(')
	if open < 0 {
		ref, reason := parseRef(raw)
		return Expr{Ref: ref}, reason
	}

	name := strings.TrimSpace(raw[:open])
	if !isIdent(name) {
		return Expr{}, "invalid function name"
	}
	if !strings.HasSuffix(raw, ")") {
		return Expr{}, "missing ) after function arguments"
	}
	parts, reason := splitArgs(raw[open+1 : len(raw)-1])
	if reason != "" {
		return Expr{}, reason
	}

	expr := Expr{Func: name}
	for _, p := range parts {
		if strings.HasPrefix(p, `"`) {
			if len(p) < 2 || !strings.HasSuffix(p, `"`) {
				return Expr{}, "unterminated string argument"
			}
			expr.Args = append(expr.Args, Arg{Literal: p[1 : len(p)-1], IsLiteral: true})
			continue
		}
		ref, reason := parseRef(p)
		if reason != "" {
			return Expr{}, reason
		}
		expr.Args = append(expr.Args, Arg{Ref: ref})
	}
	if want, ok := funcArity[name]; ok && len(expr.Args) != want {
		return Expr{}, name + " takes " + plural(want, "argument")
	}
	return expr, ""
}

// splitArgs splits on commas outside double quotes.
func splitArgs(s string) ([]string, string) {
	if strings.TrimSpace(s) == "" {
		return nil, "function needs at least one argument"
	}
	var (
		parts   []string
		inQuote bool
		last    int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	if inQuote {
		return nil, "unterminated string argument"
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	for _, p := range parts {
		if p == "" {
			return nil, "empty function argument"
		}
	}
	return parts, ""
}

func parseRef(s string) (Ref, string) {
	ns, name, dotted := strings.Cut(s, ".")
	if !dotted {
		if !isIdent(s) {
			return Ref{}, "invalid reference " + quote(s)
		}
		return Ref{Name: s}, ""
	}
	if !isIdent(ns) || !isFieldName(name) {
		return Ref{}, "invalid reference " + quote(s)
	}
	return Ref{Namespace: ns, Name: name}, ""
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// isFieldName accepts identifiers plus '-', which config field names may use.
func isFieldName(s string) bool {
	return s != "" && isIdent(strings.ReplaceAll(s, "-", "_"))
}

func quote(s string) string { return `"` + s + `"` }

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
