package manifest

import "slices"

// Bundle archive extensions.
const (
	ExtBundle   = "mcpb"
	ExtExtended = "mcpbx"
)

// Transport returns the declared transport, defaulting to stdio.
func (m *Manifest) Transport() Transport {
	if m.Server.Transport == "" {
		return TransportStdio
	}
	return m.Server.Transport
}

// IsReference reports whether the manifest points at a server that is not
// bundled: there is no entry_point to launch.
func (m *Manifest) IsReference() bool {
	return m.Server.EntryPoint == nil
}

// EffectiveVersion returns manifest_version, falling back to dxt_version.
func (m *Manifest) EffectiveVersion() string {
	if m.ManifestVersion != "" {
		return m.ManifestVersion
	}
	return m.DXTVersion
}

// RequiresExtendedFormat reports whether the bundle uses features outside
// the base MCPB format and must be packed as .mcpbx: reference mode, a
// missing server type, HTTP transport, system_config, or remote
// connection fields in mcp_config.
func (m *Manifest) RequiresExtendedFormat() bool {
	if m.Server.EntryPoint == nil || m.Server.Type == nil {
		return true
	}
	if m.Transport() == TransportHTTP {
		return true
	}
	if len(m.SystemConfig) > 0 {
		return true
	}
	if cfg := m.Server.MCPConfig; cfg != nil {
		if cfg.URL != nil || len(cfg.Headers) > 0 || cfg.OAuthConfig != nil {
			return true
		}
	}
	return false
}

// BundleExtension returns "mcpbx" for extended bundles and "mcpb" otherwise.
func (m *Manifest) BundleExtension() string {
	if m.RequiresExtendedFormat() {
		return ExtExtended
	}
	return ExtBundle
}

// BundleFileName returns <name>-<version>.<ext>.
func (m *Manifest) BundleFileName() string {
	return deref(m.Name, "bundle") + "-" + deref(m.Version, "0.0.0") + "." + m.BundleExtension()
}

// UserField returns the declared user_config field.
func (m *Manifest) UserField(name string) (UserConfigField, bool) {
	f, ok := m.UserConfig[name]
	return f, ok
}

// SystemField returns the declared system_config field.
func (m *Manifest) SystemField(name string) (SystemConfigField, bool) {
	f, ok := m.SystemConfig[name]
	return f, ok
}

// SensitiveFields returns the names of user_config fields marked sensitive,
// sorted.
func (m *Manifest) SensitiveFields() []string {
	var names []string
	for name, f := range m.UserConfig {
		if f.IsSensitive() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// MCPConfig returns the launch config, or an empty one when absent.
func (m *Manifest) MCPConfig() MCPConfig {
	if m.Server.MCPConfig == nil {
		return MCPConfig{}
	}
	return *m.Server.MCPConfig
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// Ptr returns a pointer to v. It keeps literal optionals readable.
func Ptr[T any](v T) *T {
	return &v
}
