package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
)

func TestStandard(t *testing.T) {
	tests := []struct {
		name  string
		edits []edit
		code  diagnostic.Code
		loc   string
	}{
		{"uppercase package name", []edit{set("name", "Hello")}, diagnostic.InvalidName, "name"},
		{"short package name", []edit{set("name", "ab")}, diagnostic.InvalidName, "name"},
		{
			"tool name with spaces",
			[]edit{set("tools", []any{map[string]any{"name": "get weather", "description": "d"}})},
			diagnostic.ToolMissingName, "tools[0].name",
		},
		{"extra author field", []edit{set("author.twitter", "@ada")}, diagnostic.ExtraFields, "author.twitter"},
		{"extra server field", []edit{set("server.cwd", ".")}, diagnostic.ExtraFields, "server.cwd"},
		{"extra mcp_config field", []edit{set("server.mcp_config.timeout", 5)}, diagnostic.ExtraFields, "server.mcp_config.timeout"},
		{
			"extra tool field",
			[]edit{set("tools", []any{map[string]any{"name": "t", "description": "d", "inputSchema": map[string]any{}}})},
			diagnostic.ExtraFields, "tools[0].inputSchema",
		},
		{
			"extra user_config field",
			[]edit{set("user_config", map[string]any{"k": map[string]any{"type": "string", "title": "K", "secret": true}})},
			diagnostic.ExtraFields, "user_config.k.secret",
		},
		{
			"extra prompt field",
			[]edit{set("prompts", []any{map[string]any{"name": "p", "template": "x"}})},
			diagnostic.ExtraFields, "prompts[0].template",
		},
		{"empty icon src", []edit{set("icons", []any{map[string]any{"src": ""}})}, diagnostic.MissingIconSrc, "icons[0].src"},
		{
			"bad icon size",
			[]edit{set("icons", []any{map[string]any{"src": "a.png", "size": "16"}})},
			diagnostic.InvalidIconSize, "icons[0].size",
		},
		{"svg icon", []edit{set("icon", "icon.svg")}, diagnostic.NonPNGIcon, "icon"},
		{
			"remote jpeg icon",
			[]edit{set("icons", []any{map[string]any{"src": "https://cdn.example.com/i.jpg"}})},
			diagnostic.NonPNGIcon, "icons[0].src",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := run(Standard{}, parse(t, tt.edits...))
			if !hasIssue(issues, tt.code, tt.loc) {
				t.Errorf("Standard.Check() = %v, want %s at %s", locations(issues), tt.code, tt.loc)
			}
		})
	}
}

func TestStandard_Clean(t *testing.T) {
	m := parse(t,
		set("tools", []any{map[string]any{"name": "get_weather", "description": "d"}}),
		set("icons", []any{map[string]any{"src": "icons/16.PNG", "size": "16x16", "theme": "dark"}}),
		set("_meta", map[string]any{"custom": map[string]any{"anything": true}}),
	)
	assert.Empty(t, run(Standard{}, m))
}
