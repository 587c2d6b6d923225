package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpb/internal/errors"
)

func writeValues(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadValues_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "values.yaml",
			content: `user_config:
  api_key: sk-123
  tags: [a, b]
  retries: 3
system_config:
  port: 8080
oauth:
  access_token: tok
`,
		},
		{
			name: "toml",
			file: "values.toml",
			content: `[user_config]
api_key = "sk-123"
tags = ["a", "b"]
retries = 3

[system_config]
port = 8080

[oauth]
access_token = "tok"
`,
		},
		{
			name:    "json",
			file:    "values.json",
			content: `{"user_config": {"api_key": "sk-123", "tags": ["a", "b"], "retries": 3}, "system_config": {"port": 8080}, "oauth": {"access_token": "tok"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals, err := LoadValues(writeValues(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, map[string]string{"api_key": "sk-123", "tags": "a,b", "retries": "3"}, vals.User)
			assert.Equal(t, map[string]string{"port": "8080"}, vals.System)
			assert.Equal(t, map[string]string{"access_token": "tok"}, vals.OAuth)
		})
	}
}

func TestLoadValues_FlatKeysAreUserConfig(t *testing.T) {
	vals, err := LoadValues(writeValues(t, "v.yml", "region: eu-west-1\ndebug: true\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"region": "eu-west-1", "debug": "true"}, vals.User)
}

func TestLoadValues_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown extension", "values.ini", "a=b", "unsupported extension"},
		{"section not a mapping", "values.yaml", "user_config: [a]\n", "must be a mapping"},
		{"null value", "values.json", `{"user_config": {"a": null}}`, "user_config.a"},
		{"nested flat value", "values.yaml", "nested:\n  deep: 1\n", "nested"},
		{"toml syntax", "values.toml", "a = \n", "TOML syntax error at line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadValues(writeValues(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadValues_Missing(t *testing.T) {
	_, err := LoadValues(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValues_Merge(t *testing.T) {
	base := NewValues()
	base.User["a"] = "1"
	base.User["b"] = "1"

	over := NewValues()
	over.User["b"] = "2"
	over.System["port"] = "9000"

	base.Merge(over)
	base.Merge(nil)

	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, base.User)
	assert.Equal(t, "9000", base.System["port"])
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"api_key=sk=1", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"api_key": "sk=1", "empty": ""}, got)

	_, err = ParseAssignments([]string{"novalue"})
	assert.True(t, errors.Is(err, ErrInvalidValues))

	_, err = ParseAssignments([]string{"=x"})
	assert.Error(t, err)
}
