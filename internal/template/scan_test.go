package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpb/internal/errors"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "plain text",
			input: "node server.js",
			want:  []Token{{Kind: Literal, Text: "node server.js"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "single placeholder",
			input: "${HOME}",
			want: []Token{
				{Kind: Placeholder, Text: "HOME", Expr: Expr{Ref: Ref{Name: "HOME"}}},
			},
		},
		{
			name:  "mixed",
			input: "--key=${user_config.api_key}!",
			want: []Token{
				{Kind: Literal, Text: "--key="},
				{Kind: Placeholder, Text: "user_config.api_key", Expr: Expr{Ref: Ref{NSUserConfig, "api_key"}}, Offset: 6},
				{Kind: Literal, Text: "!", Offset: 28},
			},
		},
		{
			name:  "escape yields literal",
			input: "cost $${x} now",
			want:  []Token{{Kind: Literal, Text: "cost ${x} now"}},
		},
		{
			name:  "double dollar without brace is literal",
			input: "a$$b",
			want:  []Token{{Kind: Literal, Text: "a$$b"}},
		},
		{
			name:  "lone dollar",
			input: "$HOME",
			want:  []Token{{Kind: Literal, Text: "$HOME"}},
		},
		{
			name:  "whitespace inside delimiters",
			input: "${ platform.os }",
			want: []Token{
				{Kind: Placeholder, Text: "platform.os", Expr: Expr{Ref: Ref{NSPlatform, "os"}}},
			},
		},
		{
			name:  "function with literal",
			input: `${basicAuth(user_config.user, "pw")}`,
			want: []Token{{
				Kind: Placeholder,
				Text: `basicAuth(user_config.user, "pw")`,
				Expr: Expr{Func: FuncBasicAuth, Args: []Arg{
					{Ref: Ref{NSUserConfig, "user"}},
					{Literal: "pw", IsLiteral: true},
				}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_SyntaxErrors(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		reason string
	}{
		{"abc ${user_config.x", 4, "unterminated placeholder"},
		{"${}", 0, "empty placeholder"},
		{"x${  }", 1, "empty placeholder"},
		{"${user config}", 0, "invalid reference"},
		{"${user_config.}", 0, "invalid reference"},
		{"${a.b.c}", 0, "invalid reference"},
		{"${base64(}", 0, "missing )"},
		{"${base64()}", 0, "at least one argument"},
		{`${base64("x)}`, 0, "unterminated string"},
		{"${basicAuth(user_config.a)}", 0, "takes 2 arguments"},
		{"${base64(user_config.a, user_config.b)}", 0, "takes 1 argument"},
		{"${basicAuth(user_config.a,)}", 0, "empty function argument"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Scan(tt.input)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "Scan(%q) error = %v", tt.input, err)
			assert.Equal(t, tt.offset, se.Offset)
			assert.Contains(t, se.Reason, tt.reason)
			assert.True(t, errors.Is(err, ErrSyntax))
		})
	}
}

func TestScan_EscapeIsNotAPlaceholder(t *testing.T) {
	tokens, err := Scan("$${user_config.missing}")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "${user_config.missing}", tokens[0].Text)
	assert.False(t, HasPlaceholders("$${x}"))
	assert.True(t, HasPlaceholders("$${x} ${y}"))
	assert.True(t, HasPlaceholders("${"))
}

func TestRefs(t *testing.T) {
	refs, err := Refs(`${user_config.a}-${basicAuth(system_config.b, "lit")}-${__dirname}`)
	require.NoError(t, err)
	assert.Equal(t, []Ref{
		{NSUserConfig, "a"},
		{NSSystemConfig, "b"},
		{Name: "__dirname"},
	}, refs)

	_, err = Refs("${")
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "user_config.api_key", Ref{NSUserConfig, "api_key"}.String())
	assert.Equal(t, "HOME", Ref{Name: "HOME"}.String())
}
