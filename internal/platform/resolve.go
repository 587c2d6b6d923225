package platform

import (
	"maps"
	"slices"

	"github.com/thoreinstein/mcpb/internal/manifest"
)

// Source identifies where an override came from.
type Source string

// Override sources, in precedence order for equally specific keys.
const (
	SourceStore    Source = "store"
	SourceManifest Source = "mcp_config"
)

// Selection records which override, if any, ResolveOverrides applied.
type Selection struct {
	Target  Target
	Key     string
	Source  Source
	Matched bool
}

type candidate struct {
	key    string
	source Source
}

// candidates lists lookups from most to least specific. For the exact
// os-arch key the store wins over mcp_config; for the os key mcp_config
// wins over the store.
func candidates(t Target) []candidate {
	var c []candidate
	if t.Arch != "" {
		exact := t.String()
		c = append(c,
			candidate{exact, SourceStore},
			candidate{exact, SourceManifest},
		)
	}
	os := string(t.OS)
	return append(c,
		candidate{os, SourceManifest},
		candidate{os, SourceStore},
	)
}

// ResolveOverrides returns the launch config of m for target t.
//
// Only the single most specific matching override is applied; overrides
// never stack. command and url replace the base when set, args replaces
// the base when present (an explicit empty list clears it), and env and
// headers merge key-wise with the override winning. The result carries no
// platform_overrides, so resolving it again is a no-op. m is not modified.
func ResolveOverrides(m *manifest.Manifest, t Target) (manifest.MCPConfig, Selection) {
	base := m.MCPConfig()
	sources := map[Source]map[string]manifest.PlatformOverride{
		SourceStore:    m.StorePlatformOverrides(),
		SourceManifest: base.PlatformOverrides,
	}

	sel := Selection{Target: t}
	for _, c := range candidates(t) {
		o, ok := sources[c.source][c.key]
		if !ok {
			continue
		}
		sel.Key, sel.Source, sel.Matched = c.key, c.source, true
		return Apply(base, o), sel
	}
	return Apply(base, manifest.PlatformOverride{}), sel
}

// HasOverrides reports whether m declares any platform override in either source.
func HasOverrides(m *manifest.Manifest) bool {
	return len(m.MCPConfig().PlatformOverrides) > 0 || len(m.StorePlatformOverrides()) > 0
}

// Apply merges o into a copy of base and drops base's overrides.
func Apply(base manifest.MCPConfig, o manifest.PlatformOverride) manifest.MCPConfig {
	out := manifest.MCPConfig{
		Command:     base.Command,
		Args:        slices.Clone(base.Args),
		Env:         maps.Clone(base.Env),
		URL:         base.URL,
		Headers:     maps.Clone(base.Headers),
		OAuthConfig: base.OAuthConfig,
	}
	if o.Command != nil {
		out.Command = o.Command
	}
	if o.Args != nil {
		out.Args = slices.Clone(o.Args)
	}
	if o.URL != nil {
		out.URL = o.URL
	}
	out.Env = merge(out.Env, o.Env)
	out.Headers = merge(out.Headers, o.Headers)
	return out
}

func merge(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	maps.Copy(dst, src)
	return dst
}
