package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
)

func TestRecommended(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		edits []edit
		code  diagnostic.Code
		loc   string
	}{
		{"author email", baseFiles, []edit{del("author.email")}, diagnostic.MissingAuthorEmail, "author.email"},
		{"license", baseFiles, []edit{del("license")}, diagnostic.MissingLicense, "license"},
		{"icon", baseFiles, []edit{del("icon")}, diagnostic.MissingIcon, "icon"},
		{"long description", baseFiles, []edit{set("long_description", "  ")}, diagnostic.MissingLongDescription, "long_description"},
		{"ignore file", []string{"server/index.js", "icon.png", "node_modules/"}, nil, diagnostic.MissingIgnoreFile, ""},
		{"node modules", []string{"server/index.js", "icon.png", IgnoreFile}, nil, diagnostic.DependenciesNotBundled, "server.type"},
		{
			"python environment",
			[]string{"server/main.py", "icon.png", IgnoreFile},
			[]edit{set("server.type", "python"), set("server.entry_point", "server/main.py")},
			diagnostic.DependenciesNotBundled, "server.type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := run(Recommended{}, bundle(t, tt.files, tt.edits...))
			if !hasIssue(issues, tt.code, tt.loc) {
				t.Errorf("Recommended.Check() = %v, want %s at %q", locations(issues), tt.code, tt.loc)
			}
			for _, i := range issues {
				if i.Severity != SeverityWarning {
					t.Errorf("%s has severity %v, want warning", i.Code, i.Severity)
				}
			}
		})
	}
}

func TestRecommended_PythonVenvAccepted(t *testing.T) {
	m := bundle(t, []string{"server/main.py", "icon.png", IgnoreFile, ".venv/"},
		set("server.type", "python"),
		set("server.entry_point", "server/main.py"),
	)
	assert.NotContains(t, codes(run(Recommended{}, m)), diagnostic.DependenciesNotBundled)
}

func TestRecommended_IconsArraySatisfiesIcon(t *testing.T) {
	m := parse(t, del("icon"), set("icons", []any{map[string]any{"src": "a.png"}}))
	assert.NotContains(t, codes(run(Recommended{}, m)), diagnostic.MissingIcon)
}
