package validator

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/internal/template"
)

var (
	locServer    = diagnostic.At("server")
	locMCPConfig = diagnostic.At("server", "mcp_config")
	locStore     = diagnostic.At("_meta").Key(manifest.StoreNamespace)
)

// Core checks required fields, identity, server shape and transport.
type Core struct{}

// Name implements Category.
func (Core) Name() string { return "core" }

// Check implements Category.
func (Core) Check(ctx *Context) []Issue {
	m := ctx.Manifest
	var issues []Issue

	if v := m.EffectiveVersion(); v != diagnostic.CurrentManifestVersion {
		loc := diagnostic.At("manifest_version")
		if m.ManifestVersion == "" {
			loc = diagnostic.At("dxt_version")
		}
		issues = append(issues, NewIssue(diagnostic.DeprecatedManifestVersion, loc, "found %q", v))
	}

	issues = append(issues, requireString(m.Name, "name")...)
	issues = append(issues, requireString(m.Version, "version")...)
	issues = append(issues, requireString(m.Description, "description")...)
	switch {
	case m.Author == nil:
		issues = append(issues, missing(diagnostic.At("author")))
	case strings.TrimSpace(m.Author.Name) == "":
		issues = append(issues, missing(diagnostic.At("author", "name")))
	}

	if m.Version != nil && *m.Version != "" {
		if _, err := semver.StrictNewVersion(*m.Version); err != nil {
			issues = append(issues, NewIssue(diagnostic.InvalidVersion, diagnostic.At("version"), "%q: %v", *m.Version, err))
		}
	}

	issues = append(issues, checkServer(ctx)...)
	issues = append(issues, duplicateTools(m)...)
	return issues
}

func requireString(v *string, field string) []Issue {
	if v == nil || strings.TrimSpace(*v) == "" {
		return []Issue{missing(diagnostic.At(field))}
	}
	return nil
}

func missing(loc diagnostic.Path) Issue {
	return NewIssue(diagnostic.MissingRequiredField, loc, "%s is required", loc).
		WithHelp("add `" + loc.String() + "` to manifest.json")
}

func checkServer(ctx *Context) []Issue {
	m := ctx.Manifest
	srv := m.Server
	var issues []Issue

	if srv.Type != nil && !srv.Type.Valid() {
		issues = append(issues, NewIssue(diagnostic.InvalidServerType, locServer.Key("type"), "%q", *srv.Type))
	}
	if srv.Type != nil && srv.EntryPoint == nil {
		issues = append(issues, NewIssue(diagnostic.MissingEntryPoint, locServer.Key("entry_point"),
			"server type %q needs an entry_point", *srv.Type))
	}
	if srv.Type != nil && srv.EntryPoint != nil {
		if want := entryExtension(*srv.Type); want != "" && !strings.EqualFold(filepath.Ext(*srv.EntryPoint), want) {
			issues = append(issues, NewIssue(diagnostic.EntryPointExtension, locServer.Key("entry_point"),
				"%s server entry point %q does not end in %s", *srv.Type, *srv.EntryPoint, want))
		}
	}

	if srv.MCPConfig == nil {
		return append(issues, NewIssue(diagnostic.MissingMCPConfig, locMCPConfig, ""))
	}
	cfg := srv.MCPConfig

	switch m.Transport() {
	case manifest.TransportHTTP:
		if cfg.URL == nil && !overridesSet(ctx, func(o manifest.PlatformOverride) bool { return o.URL != nil }) {
			issues = append(issues, NewIssue(diagnostic.MissingURL, locMCPConfig.Key("url"), ""))
		}
	default:
		if cfg.Command == nil && !overridesSet(ctx, func(o manifest.PlatformOverride) bool { return o.Command != nil }) {
			issues = append(issues, NewIssue(diagnostic.MissingCommand, locMCPConfig.Key("command"), ""))
		}
	}

	if cfg.URL != nil {
		issues = append(issues, checkURL(locMCPConfig.Key("url"), *cfg.URL)...)
	}
	for _, o := range overrideEntries(ctx) {
		if o.Override.URL != nil {
			issues = append(issues, checkURL(o.Loc.Key("url"), *o.Override.URL)...)
		}
	}
	return issues
}

func entryExtension(t manifest.ServerType) string {
	switch t {
	case manifest.ServerNode:
		return ".js"
	case manifest.ServerPython:
		return ".py"
	}
	return ""
}

// overridesSet reports whether some override exists and every override in
// either source satisfies set.
func overridesSet(ctx *Context, set func(manifest.PlatformOverride) bool) bool {
	entries := overrideEntries(ctx)
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if !set(e.Override) {
			return false
		}
	}
	return true
}

// checkURL parses raw with every placeholder replaced by a neutral value.
func checkURL(loc diagnostic.Path, raw string) []Issue {
	probe, err := neutralize(raw)
	if err != nil {
		// Template syntax is reported by the variables category.
		return nil
	}
	u, err := url.Parse(probe)
	switch {
	case err != nil:
		return []Issue{NewIssue(diagnostic.InvalidURL, loc, "%q: %v", raw, err)}
	case u.Scheme != "http" && u.Scheme != "https":
		return []Issue{NewIssue(diagnostic.InvalidURL, loc, "%q: scheme must be http or https", raw)}
	case u.Host == "":
		return []Issue{NewIssue(diagnostic.InvalidURL, loc, "%q: missing host", raw)}
	}
	return nil
}

func neutralize(s string) (string, error) {
	tokens, err := template.Scan(s)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind == template.Literal {
			b.WriteString(t.Text)
			continue
		}
		b.WriteString("0")
	}
	return b.String(), nil
}

func duplicateTools(m *manifest.Manifest) []Issue {
	var issues []Issue
	first := make(map[string]int)
	for i, t := range m.Tools {
		if t.Name == "" {
			continue
		}
		if j, ok := first[t.Name]; ok {
			issues = append(issues, NewIssue(diagnostic.DuplicateToolName,
				diagnostic.At("tools").Index(i).Key("name"), "%q is also declared at tools[%d]", t.Name, j))
			continue
		}
		first[t.Name] = i
	}
	return issues
}

// overrideEntry is one platform override with the location it came from.
type overrideEntry struct {
	Key      string
	Source   string
	Loc      diagnostic.Path
	Override manifest.PlatformOverride
}

// overrideEntries lists the overrides of both sources, mcp_config first,
// each in sorted key order.
func overrideEntries(ctx *Context) []overrideEntry {
	var out []overrideEntry
	add := func(source string, base diagnostic.Path, m map[string]manifest.PlatformOverride) {
		for _, k := range sortedKeys(m) {
			out = append(out, overrideEntry{Key: k, Source: source, Loc: base.Key(k), Override: m[k]})
		}
	}
	add("mcp_config", locMCPConfig.Key("platform_overrides"), ctx.Manifest.MCPConfig().PlatformOverrides)
	if s := ctx.Store(); s.MCPConfig != nil {
		add("store", locStore.Key("mcp_config").Key("platform_overrides"), s.MCPConfig.PlatformOverrides)
	}
	return out
}
