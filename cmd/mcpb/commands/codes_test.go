package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
)

func TestCodesCommand(t *testing.T) {
	out, err := executeCommand(t, "codes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "E000"), lines[1])
	assert.Contains(t, out, "path escapes bundle directory")
	assert.NotContains(t, out, "W009")
}

func TestCodesCommand_All(t *testing.T) {
	out, err := executeCommand(t, "codes", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "W009")
	assert.Contains(t, out, "(retired)")
}

func TestCodesCommand_Lookup(t *testing.T) {
	out, err := executeCommand(t, "codes", "--json", "E013", "W019")
	require.NoError(t, err)

	var defs []diagnostic.Definition
	require.NoError(t, json.Unmarshal([]byte(out), &defs), out)
	require.Len(t, defs, 2)
	assert.Equal(t, diagnostic.PathSafety, defs[0].Code)
	assert.Equal(t, diagnostic.SeverityError, defs[0].Severity)
	assert.Equal(t, diagnostic.MissingIgnoreFile, defs[1].Code)
	assert.Equal(t, diagnostic.SeverityWarning, defs[1].Severity)
}

func TestCodesCommand_Unknown(t *testing.T) {
	_, err := executeCommand(t, "codes", "E999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E999")
}
