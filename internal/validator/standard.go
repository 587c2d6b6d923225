package validator

import (
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/manifest"
)

var iconSize = regexp.MustCompile(`^\d+x\d+$`)

// standardFields lists the members each standard object may carry.
// Anything else belongs under _meta.
var standardFields = map[string][]string{
	"author":        {"name", "email", "url"},
	"repository":    {"type", "url"},
	"server":        {"type", "entry_point", "mcp_config", "transport"},
	"mcp_config":    {"command", "args", "env", "platform_overrides", "url", "headers", "oauth_config"},
	"compatibility": {"claude_desktop", "platforms", "runtimes"},
	"icon":          {"src", "size", "theme"},
	"user_config":   {"type", "title", "description", "required", "default", "sensitive", "min", "max", "multiple", "enum"},
	"tool":          {"name", "description"},
	"prompt":        {"name", "description", "arguments", "text"},
}

// Standard checks naming conventions, icons and unknown members of the
// standard objects.
type Standard struct{}

// Name implements Category.
func (Standard) Name() string { return "standard" }

// Check implements Category.
func (Standard) Check(ctx *Context) []Issue {
	m := ctx.Manifest
	var issues []Issue

	if m.Name != nil && *m.Name != "" && !manifest.ValidPackageName(*m.Name) {
		issues = append(issues, NewIssue(diagnostic.InvalidName, diagnostic.At("name"),
			"%q must be %d-%d lowercase letters, digits or hyphens, starting with a letter",
			*m.Name, manifest.MinNameLength, manifest.MaxNameLength))
	}
	for i, t := range m.Tools {
		if t.Name != "" && !manifest.ValidToolName(t.Name) {
			issues = append(issues, NewIssue(diagnostic.ToolMissingName, diagnostic.At("tools").Index(i).Key("name"),
				"%q must start with a letter and contain only letters, digits, '-', '_' or '.'", t.Name))
		}
	}

	if m.Icon != nil && *m.Icon != "" && !isPNG(*m.Icon) {
		issues = append(issues, NewIssue(diagnostic.NonPNGIcon, diagnostic.At("icon"), "%q", *m.Icon))
	}
	for i, icon := range m.Icons {
		loc := diagnostic.At("icons").Index(i)
		switch {
		case strings.TrimSpace(icon.Src) == "":
			issues = append(issues, NewIssue(diagnostic.MissingIconSrc, loc.Key("src"), ""))
		case !isPNG(icon.Src):
			issues = append(issues, NewIssue(diagnostic.NonPNGIcon, loc.Key("src"), "%q", icon.Src))
		}
		if icon.Size != nil && !iconSize.MatchString(*icon.Size) {
			issues = append(issues, NewIssue(diagnostic.InvalidIconSize, loc.Key("size"), "%q", *icon.Size))
		}
	}

	return append(issues, extraFields(m.Raw)...)
}

func isPNG(src string) bool {
	if isRemote(src) {
		return strings.HasSuffix(strings.ToLower(src), ".png")
	}
	return strings.EqualFold(path.Ext(strings.ReplaceAll(src, `\`, "/")), ".png")
}

func extraFields(raw map[string]any) []Issue {
	var issues []Issue
	check := func(loc diagnostic.Path, kind string, v any) {
		obj, ok := v.(map[string]any)
		if !ok {
			return
		}
		allowed := standardFields[kind]
		for _, k := range sortedKeys(obj) {
			if !slices.Contains(allowed, k) {
				issues = append(issues, NewIssue(diagnostic.ExtraFields, loc.Key(k),
					"%q is not a %s field (allowed: %s)", k, kind, strings.Join(allowed, ", ")))
			}
		}
	}
	each := func(loc diagnostic.Path, kind string, v any) {
		list, _ := v.([]any)
		for i, e := range list {
			check(loc.Index(i), kind, e)
		}
	}

	check(diagnostic.At("author"), "author", raw["author"])
	check(diagnostic.At("repository"), "repository", raw["repository"])
	check(diagnostic.At("compatibility"), "compatibility", raw["compatibility"])
	check(locServer, "server", raw["server"])
	if server, ok := raw["server"].(map[string]any); ok {
		check(locMCPConfig, "mcp_config", server["mcp_config"])
	}
	each(diagnostic.At("icons"), "icon", raw["icons"])
	each(diagnostic.At("tools"), "tool", raw["tools"])
	each(diagnostic.At("prompts"), "prompt", raw["prompts"])
	if uc, ok := raw["user_config"].(map[string]any); ok {
		for _, name := range sortedKeys(uc) {
			check(diagnostic.At("user_config").Key(name), "user_config", uc[name])
		}
	}
	return issues
}
