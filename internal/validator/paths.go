package validator

import (
	"strings"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
)

// Paths checks that every file the manifest names stays inside the bundle
// and, when the bundle directory is known, exists.
type Paths struct{}

// Name implements Category.
func (Paths) Name() string { return "paths" }

// Check implements Category.
func (Paths) Check(ctx *Context) []Issue {
	m := ctx.Manifest
	var issues []Issue

	entry := ""
	if ep := m.Server.EntryPoint; ep != nil && *ep != "" {
		entry = strings.TrimPrefix(*ep, "./")
		issues = append(issues, checkFile(ctx, locServer.Key("entry_point"), *ep, diagnostic.EntryPointNotFound)...)
	}

	if m.Icon != nil && *m.Icon != "" && !isRemote(*m.Icon) {
		issues = append(issues, checkFile(ctx, diagnostic.At("icon"), *m.Icon, diagnostic.FileNotFound)...)
	}
	for i, icon := range m.Icons {
		if icon.Src == "" || isRemote(icon.Src) {
			continue
		}
		loc := diagnostic.At("icons").Index(i).Key("src")
		issues = append(issues, checkFile(ctx, loc, icon.Src, diagnostic.FileNotFound)...)
	}

	if cfg := m.Server.MCPConfig; cfg != nil {
		launch := launchStrings(locMCPConfig, cfg.Command, cfg.Args)
		for _, l := range launch {
			rel, ok := bundleRelative(l.value)
			if !ok || rel == entry {
				continue
			}
			code := diagnostic.FileNotFound
			if strings.Contains(rel, "$") {
				code = ""
			}
			issues = append(issues, checkFile(ctx, l.loc, rel, code)...)
		}
	}
	for _, e := range overrideEntries(ctx) {
		for _, l := range launchStrings(e.Loc, e.Override.Command, e.Override.Args) {
			if rel, ok := bundleRelative(l.value); ok {
				issues = append(issues, checkFile(ctx, l.loc, rel, "")...)
			}
		}
	}

	scripts := ctx.Store().Scripts
	for _, name := range sortedKeys(scripts) {
		loc := locStore.Key("scripts").Key(name)
		for _, f := range scriptFiles(scripts[name]) {
			issues = append(issues, checkFile(ctx, loc, f, "")...)
		}
	}
	return issues
}

type located struct {
	loc   diagnostic.Path
	value string
}

func launchStrings(base diagnostic.Path, command *string, args []string) []located {
	var out []located
	if command != nil {
		out = append(out, located{base.Key("command"), *command})
	}
	for i, a := range args {
		out = append(out, located{base.Key("args").Index(i), a})
	}
	return out
}
