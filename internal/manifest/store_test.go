package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest_Store(t *testing.T) {
	m, err := Parse([]byte(`{
  "manifest_version": "0.3",
  "server": {},
  "_meta": {
    "store.tool.mcpb": {
      "package_manager": "pnpm",
      "scripts": {"build": "pnpm install", "lint": "eslint ."},
      "mcp_config": {"platform_overrides": {"darwin-arm64": {"command": "bin/mac"}}},
      "static_responses": {
        "tools/list": {"tools": [{"name": "get-weather", "inputSchema": {"type": "object"}}]}
      }
    }
  }
}`))
	require.NoError(t, err)

	s, err := m.Store()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "pnpm", *s.PackageManager)
	assert.Equal(t, "eslint .", s.Scripts["lint"])
	require.NotNil(t, s.StaticResponses.ToolsList)
	assert.Equal(t, "get-weather", s.StaticResponses.ToolsList.Tools[0].Name)
	assert.JSONEq(t, `{"type":"object"}`, string(s.StaticResponses.ToolsList.Tools[0].InputSchema))
	assert.Equal(t, "bin/mac", *m.StorePlatformOverrides()["darwin-arm64"].Command)
}

func TestManifest_StoreAbsent(t *testing.T) {
	m, err := Parse([]byte(`{"manifest_version": "0.3", "server": {}}`))
	require.NoError(t, err)

	s, err := m.Store()
	assert.NoError(t, err)
	assert.Nil(t, s)
	assert.Nil(t, m.StorePlatformOverrides())
	assert.Nil(t, m.StoreRaw())
}

func TestManifest_StoreMalformed(t *testing.T) {
	m, err := Parse([]byte(`{"manifest_version": "0.3", "server": {}, "_meta": {"store.tool.mcpb": {"scripts": ["build"]}}}`))
	require.NoError(t, err)

	_, err = m.Store()
	assert.Error(t, err)
	assert.Nil(t, m.StorePlatformOverrides())
}
