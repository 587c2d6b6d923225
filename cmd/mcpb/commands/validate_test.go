package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpb/internal/errors"
)

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name         string
		files        map[string]string
		args         []string
		wantErr      bool
		wantContains []string
	}{
		{
			name:         "passes with warnings",
			files:        map[string]string{"server/index.js": "//"},
			wantContains: []string{"Validation passed with", "W002", "W019"},
		},
		{
			name:         "missing entry point fails",
			files:        map[string]string{},
			wantErr:      true,
			wantContains: []string{"Validation failed", "E007", "server.entry_point"},
		},
		{
			name:         "strict turns warnings fatal",
			files:        map[string]string{"server/index.js": "//"},
			args:         []string{"--strict"},
			wantErr:      true,
			wantContains: []string{"W002"},
		},
		{
			name:    "unknown platform",
			files:   map[string]string{"server/index.js": "//"},
			args:    []string{"--platform", "amiga"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeBundle(t, weatherManifest, tt.files)
			out, err := executeCommand(t, append([]string{"validate", dir}, tt.args...)...)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("validate output missing %q\nGot:\n%s", want, out)
				}
			}
		})
	}
}

func TestValidateCommand_FailureIsValidationFailed(t *testing.T) {
	dir := writeBundle(t, weatherManifest, nil)

	_, err := executeCommand(t, "validate", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidationFailed))
}

func TestValidateCommand_JSON(t *testing.T) {
	dir := writeBundle(t, weatherManifest, map[string]string{"server/index.js": "//"})

	out, err := executeCommand(t, "validate", dir, "--json")
	require.NoError(t, err)

	var report struct {
		Valid  bool `json:"valid"`
		Errors int  `json:"errors"`
		Issues []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.True(t, report.Valid)
	assert.Zero(t, report.Errors)
	require.NotEmpty(t, report.Issues)
	for _, i := range report.Issues {
		assert.Equal(t, "warning", i.Severity, i.Code)
	}
}

func TestValidateCommand_NoManifest(t *testing.T) {
	out, err := executeCommand(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "E000")
}

func TestValidateCommand_StrictFromConfig(t *testing.T) {
	dir := writeBundle(t, weatherManifest, map[string]string{"server/index.js": "//"})

	t.Setenv("MCPB_STRICT", "true")
	_, err := executeCommand(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict")
}
