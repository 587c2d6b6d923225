package commands

import (
	"strings"
	"testing"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
)

func TestVersionCommand_OutputFormat(t *testing.T) {
	output, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	tests := []struct {
		name     string
		contains string
	}{
		{name: "contains version header", contains: "mcpb version"},
		{name: "contains commit field", contains: "commit:"},
		{name: "contains built field", contains: "built:"},
		{name: "contains manifest version", contains: "manifest: " + diagnostic.CurrentManifestVersion},
		{name: "contains platform field", contains: "platform:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(output, tt.contains) {
				t.Errorf("version output missing %q\nGot:\n%s", tt.contains, output)
			}
		})
	}
}
