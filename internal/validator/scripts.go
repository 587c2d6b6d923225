package validator

import (
	"slices"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/manifest"
)

// reservedScripts collide with mcpb subcommands or registry verbs.
var reservedScripts = []string{
	"init", "detect", "search", "install", "uninstall", "list", "grep",
	"info", "call", "download", "validate", "pack", "run", "publish",
	"login", "logout", "whoami", "self", "config", "host",
	"resolve", "codes", "version", "help",
}

// Scripts checks the store namespace's scripts and package manager.
type Scripts struct{}

// Name implements Category.
func (Scripts) Name() string { return "scripts" }

// Check implements Category.
func (Scripts) Check(ctx *Context) []Issue {
	store := ctx.Store()
	var issues []Issue

	for _, name := range sortedKeys(store.Scripts) {
		loc := locStore.Key("scripts").Key(name)
		if slices.Contains(reservedScripts, name) {
			issues = append(issues, NewIssue(diagnostic.ReservedScriptName, loc,
				"%q conflicts with a built-in command", name))
		}
		if ctx.Dir == "" {
			continue
		}
		for _, f := range scriptFiles(store.Scripts[name]) {
			// Escaping paths are reported by the paths category.
			if unsafePath(f) == "" && !exists(ctx.Dir, f) {
				issues = append(issues, NewIssue(diagnostic.FileNotFound, loc, "script file %q does not exist", f))
			}
		}
	}

	if store.PackageManager == nil {
		return issues
	}
	pm := manifest.PackageManager(*store.PackageManager)
	loc := locStore.Key("package_manager")
	switch {
	case !pm.Known():
		issues = append(issues, NewIssue(diagnostic.UnknownPackageManager, loc, "%q", pm))
	case ctx.Manifest.Server.Type != nil && !pm.Fits(*ctx.Manifest.Server.Type):
		issues = append(issues, NewIssue(diagnostic.PackageManagerMismatch, loc,
			"%s does not install dependencies for %s servers", pm, *ctx.Manifest.Server.Type))
	}
	return issues
}
