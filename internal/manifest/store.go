package manifest

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// StoreNamespace is the _meta key holding registry-specific metadata.
const StoreNamespace = "store.tool.mcpb"

// Store is the typed view of _meta["store.tool.mcpb"].
type Store struct {
	MCPConfig       *StoreMCPConfig   `json:"mcp_config,omitempty"`
	Compatibility   *Compatibility    `json:"compatibility,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	PackageManager  *string           `json:"package_manager,omitempty"`
	StaticResponses *StaticResponses  `json:"static_responses,omitempty"`
}

// StoreMCPConfig carries the store's own platform overrides.
type StoreMCPConfig struct {
	PlatformOverrides map[string]PlatformOverride `json:"platform_overrides,omitempty"`
}

// StaticResponses are canned MCP responses served without launching the server.
type StaticResponses struct {
	ToolsList *ToolsList `json:"tools/list,omitempty"`
}

// ToolsList is a static tools/list response.
type ToolsList struct {
	Tools []StaticTool `json:"tools"`
}

// StaticTool is a full tool description with schemas.
type StaticTool struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Title        *string         `json:"title,omitempty"`
	InputSchema  json.RawMessage `json:"inputSchema,omitempty"`
	OutputSchema json.RawMessage `json:"outputSchema,omitempty"`
}

// Store decodes the store namespace of _meta. It returns (nil, nil) when the
// namespace is absent.
func (m *Manifest) Store() (*Store, error) {
	raw, ok := m.Meta[StoreNamespace]
	if !ok {
		return nil, nil
	}
	var s Store
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrapf(err, "decoding _meta[%q]", StoreNamespace)
	}
	return &s, nil
}

// StoreRaw returns the store namespace as a generic object, or nil.
func (m *Manifest) StoreRaw() map[string]any {
	meta, _ := m.Raw["_meta"].(map[string]any)
	store, _ := meta[StoreNamespace].(map[string]any)
	return store
}

// StorePlatformOverrides returns the store's override map, or nil.
func (m *Manifest) StorePlatformOverrides() map[string]PlatformOverride {
	s, err := m.Store()
	if err != nil || s == nil || s.MCPConfig == nil {
		return nil
	}
	return s.MCPConfig.PlatformOverrides
}
