package validator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/internal/platform"
)

// Platforms checks platform override keys and their consistency with
// compatibility declarations and the target platform.
type Platforms struct{}

// Name implements Category.
func (Platforms) Name() string { return "platforms" }

// Check implements Category.
func (Platforms) Check(ctx *Context) []Issue {
	entries := overrideEntries(ctx)
	var issues []Issue

	manifestOS := make(map[platform.OS]bool)
	storeOS := make(map[platform.OS]bool)
	bySource := map[string]map[string]bool{"mcp_config": {}, "store": {}}
	for _, e := range entries {
		bySource[e.Source][e.Key] = true
		k, err := platform.ParseKey(e.Key)
		if err != nil {
			issues = append(issues, NewIssue(diagnostic.InvalidPlatformKey, e.Loc, "%s", err.Error()))
			continue
		}
		if e.Source == "store" {
			storeOS[k.OS] = true
		} else {
			manifestOS[k.OS] = true
		}
	}

	for _, e := range entries {
		if e.Source == "store" && bySource["mcp_config"][e.Key] {
			issues = append(issues, NewIssue(diagnostic.DuplicatePlatformKey, e.Loc,
				"%q is defined in both server.mcp_config and the store namespace; only the %s entry is used",
				e.Key, winner(e.Key)))
		}
	}

	if len(manifestOS) > 0 && len(storeOS) > 0 {
		storeLoc := locStore.Key("mcp_config").Key("platform_overrides")
		for _, o := range platform.OSNames() {
			if manifestOS[platform.OS(o)] && !storeOS[platform.OS(o)] {
				issues = append(issues, NewIssue(diagnostic.PlatformAlignment, storeLoc,
					"server.mcp_config overrides %s but the store overrides do not", o))
			}
		}
	}

	issues = append(issues, compatibility(diagnostic.At("compatibility", "platforms"), ctx.Manifest.Compatibility, bySource["mcp_config"])...)
	issues = append(issues, compatibility(locStore.Key("compatibility").Key("platforms"), ctx.Store().Compatibility, bySource["store"])...)

	if t := ctx.Manifest.Server.Type; t != nil && *t == manifest.ServerBinary {
		for _, e := range entries {
			issues = append(issues, binaryOverride(ctx, e)...)
		}
	}

	if ctx.Target != nil && platform.HasOverrides(ctx.Manifest) {
		if _, sel := platform.ResolveOverrides(ctx.Manifest, *ctx.Target); !sel.Matched {
			issues = append(issues, NewIssue(diagnostic.PlatformUnsupported, locMCPConfig.Key("platform_overrides"),
				"no override matches %s; the base configuration will be used", ctx.Target))
		}
	}
	return issues
}

// winner names the source ResolveOverrides prefers for key.
func winner(key string) string {
	if strings.Contains(key, "-") {
		return "store"
	}
	return "server.mcp_config"
}

// compatibility warns for each declared platform no override key covers.
func compatibility(loc diagnostic.Path, c *manifest.Compatibility, keys map[string]bool) []Issue {
	if c == nil || len(c.Platforms) == 0 || len(keys) == 0 {
		return nil
	}
	covered := make(map[string]bool)
	for k := range keys {
		os, _, _ := strings.Cut(k, "-")
		covered[os] = true
	}
	var issues []Issue
	for i, p := range c.Platforms {
		if !covered[p] {
			issues = append(issues, NewIssue(diagnostic.CompatibilityMismatch, loc.Index(i),
				"%q is listed as compatible but has no platform override", p))
		}
	}
	return issues
}

// binaryOverride warns when an override's command names a bundled file
// that is not there. Bare program names are looked up on PATH at launch
// and are not checked.
func binaryOverride(ctx *Context, e overrideEntry) []Issue {
	if ctx.Dir == "" || e.Override.Command == nil {
		return nil
	}
	cmd := *e.Override.Command
	rel, ok := bundleRelative(cmd)
	if !ok {
		if !strings.ContainsAny(cmd, `/\`) {
			return nil
		}
		rel = cmd
	}
	if strings.Contains(rel, "$") || unsafePath(rel) != "" {
		return nil
	}
	if _, err := os.Stat(filepath.Join(ctx.Dir, filepath.FromSlash(rel))); err != nil {
		return []Issue{NewIssue(diagnostic.BinaryOverrideNotFound, e.Loc.Key("command"),
			"%s override command %q not found in bundle", e.Key, rel)}
	}
	return nil
}
