package manifest

import "strings"

// Package name length bounds.
const (
	MinNameLength = 3
	MaxNameLength = 64
)

// NameRule is an identifier convention. Names start with a letter and
// continue with letters, digits or one of Punct.
type NameRule struct {
	Min, Max  int
	Uppercase bool
	Punct     string
}

// Naming conventions for packages and tools.
var (
	PackageNameRule = NameRule{Min: MinNameLength, Max: MaxNameLength, Punct: "-"}
	ToolNameRule    = NameRule{Min: 1, Max: 128, Uppercase: true, Punct: "-_."}
)

// Valid reports whether name follows the rule.
func (r NameRule) Valid(name string) bool {
	if len(name) < r.Min || len(name) > r.Max {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case r.Uppercase && c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		case i > 0 && strings.IndexByte(r.Punct, c) >= 0:
		default:
			return false
		}
	}
	return true
}

// ValidPackageName reports whether name is 3-64 characters, starts with a
// lowercase ASCII letter and contains only lowercase letters, digits and
// hyphens.
func ValidPackageName(name string) bool {
	return PackageNameRule.Valid(name)
}

// ValidToolName reports whether name is a usable MCP tool name.
func ValidToolName(name string) bool {
	return ToolNameRule.Valid(name)
}
