package template

import (
	"strings"
)

// TokenKind distinguishes literal text from placeholders.
type TokenKind int

const (
	Literal TokenKind = iota
	Placeholder
)

// Token is one piece of a scanned field value.
// For a Literal, Text holds the unescaped text. For a Placeholder, Text
// holds the raw expression between the delimiters and Expr its parsed form.
type Token struct {
	Kind   TokenKind
	Text   string
	Expr   Expr
	Offset int
}

// Scan splits s into literal and placeholder tokens in one pass.
// Adjacent literal text, including escaped "${", is merged into one token.
func Scan(s string) ([]Token, error) {
	var (
		tokens []Token
		lit    strings.Builder
		start  int
	)
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, Token{Kind: Literal, Text: lit.String(), Offset: start})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "$${"):
			if lit.Len() == 0 {
				start = i
			}
			lit.WriteString("${")
			i += 3
		case strings.HasPrefix(s[i:], "${"):
			flush()
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return nil, &SyntaxError{Offset: i, Reason: "unterminated placeholder"}
			}
			raw := strings.TrimSpace(s[i+2 : i+2+end])
			if raw == "" {
				return nil, &SyntaxError{Offset: i, Reason: "empty placeholder"}
			}
			expr, reason := parseExpr(raw)
			if reason != "" {
				return nil, &SyntaxError{Offset: i, Reason: reason}
			}
			tokens = append(tokens, Token{Kind: Placeholder, Text: raw, Expr: expr, Offset: i})
			i += 2 + end + 1
		default:
			if lit.Len() == 0 {
				start = i
			}
			lit.WriteByte(s[i])
			i++
		}
	}
	flush()
	return tokens, nil
}

// Refs returns every reference in s in order of appearance, including
// references used as function arguments.
func Refs(s string) ([]Ref, error) {
	tokens, err := Scan(s)
	if err != nil {
		return nil, err
	}
	var refs []Ref
	for _, t := range tokens {
		if t.Kind == Placeholder {
			refs = append(refs, t.Expr.Refs()...)
		}
	}
	return refs, nil
}

// HasPlaceholders reports whether s contains an unescaped "${", well
// formed or not.
func HasPlaceholders(s string) bool {
	tokens, err := Scan(s)
	if err != nil {
		return true
	}
	for _, t := range tokens {
		if t.Kind == Placeholder {
			return true
		}
	}
	return false
}
