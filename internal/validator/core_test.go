package validator

import (
	"testing"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
)

func TestCore(t *testing.T) {
	tests := []struct {
		name  string
		edits []edit
		code  diagnostic.Code
		loc   string
	}{
		{"missing name", []edit{del("name")}, diagnostic.MissingRequiredField, "name"},
		{"blank version", []edit{set("version", " ")}, diagnostic.MissingRequiredField, "version"},
		{"missing description", []edit{del("description")}, diagnostic.MissingRequiredField, "description"},
		{"missing author", []edit{del("author")}, diagnostic.MissingRequiredField, "author"},
		{"missing author name", []edit{del("author.name")}, diagnostic.MissingRequiredField, "author.name"},
		{"loose version", []edit{set("version", "1.0")}, diagnostic.InvalidVersion, "version"},
		{"v-prefixed version", []edit{set("version", "v1.0.0")}, diagnostic.InvalidVersion, "version"},
		{"unknown server type", []edit{set("server.type", "ruby")}, diagnostic.InvalidServerType, "server.type"},
		{"type without entry point", []edit{del("server.entry_point")}, diagnostic.MissingEntryPoint, "server.entry_point"},
		{"missing mcp_config", []edit{del("server.mcp_config")}, diagnostic.MissingMCPConfig, "server.mcp_config"},
		{"stdio without command", []edit{del("server.mcp_config.command")}, diagnostic.MissingCommand, "server.mcp_config.command"},
		{
			"http without url",
			[]edit{set("server.transport", "http")},
			diagnostic.MissingURL, "server.mcp_config.url",
		},
		{
			"url without host",
			[]edit{set("server.transport", "http"), set("server.mcp_config.url", "http:///mcp")},
			diagnostic.InvalidURL, "server.mcp_config.url",
		},
		{
			"url with wrong scheme",
			[]edit{set("server.mcp_config.url", "ftp://example.com")},
			diagnostic.InvalidURL, "server.mcp_config.url",
		},
		{
			"override url malformed",
			[]edit{set("server.mcp_config.platform_overrides", map[string]any{"linux": map[string]any{"url": "not a url"}})},
			diagnostic.InvalidURL, "server.mcp_config.platform_overrides.linux.url",
		},
		{
			"duplicate tools",
			[]edit{set("tools", []any{
				map[string]any{"name": "greet", "description": "a"},
				map[string]any{"name": "greet", "description": "b"},
			})},
			diagnostic.DuplicateToolName, "tools[1].name",
		},
		{"python entry extension", []edit{set("server.type", "python")}, diagnostic.EntryPointExtension, "server.entry_point"},
		{"old manifest version", []edit{set("manifest_version", "0.2")}, diagnostic.DeprecatedManifestVersion, "manifest_version"},
		{
			"legacy dxt_version",
			[]edit{del("manifest_version"), set("dxt_version", "0.1")},
			diagnostic.DeprecatedManifestVersion, "dxt_version",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := run(Core{}, parse(t, tt.edits...))
			if !hasIssue(issues, tt.code, tt.loc) {
				t.Errorf("Core.Check() = %v, want %s at %s", locations(issues), tt.code, tt.loc)
			}
		})
	}
}

func TestCore_CleanManifest(t *testing.T) {
	if issues := run(Core{}, parse(t)); len(issues) != 0 {
		t.Errorf("Core.Check() = %v, want none", locations(issues))
	}
}

func TestCore_TemplatedURL(t *testing.T) {
	m := parse(t,
		set("server.transport", "http"),
		set("server.mcp_config.url", "http://${system_config.hostname}:${system_config.port}/mcp"),
	)
	for _, i := range run(Core{}, m) {
		if i.Code == diagnostic.InvalidURL || i.Code == diagnostic.MissingURL {
			t.Errorf("unexpected %s: %s", i.Code, i.Detail)
		}
	}
}

func TestCore_OverridesSupplyCommand(t *testing.T) {
	m := parse(t,
		del("server.mcp_config.command"),
		set("server.mcp_config.platform_overrides", map[string]any{
			"darwin": map[string]any{"command": "node"},
			"linux":  map[string]any{"command": "node"},
		}),
	)
	if hasIssue(run(Core{}, m), diagnostic.MissingCommand, "server.mcp_config.command") {
		t.Error("E010 reported although every override sets command")
	}
}
