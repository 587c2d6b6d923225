package validator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/manifest"
)

// IgnoreFile is the bundle's pack exclusion list.
const IgnoreFile = ".mcpbignore"

// pythonDepDirs are the locations a bundled python environment may live in.
var pythonDepDirs = []string{"server/lib", "server/venv", ".venv"}

// Recommended reports missing metadata and packaging hygiene. Everything it
// reports is a warning.
type Recommended struct{}

// Name implements Category.
func (Recommended) Name() string { return "recommended" }

// Check implements Category.
func (Recommended) Check(ctx *Context) []Issue {
	m := ctx.Manifest
	var issues []Issue

	if m.Author != nil && (m.Author.Email == nil || *m.Author.Email == "") {
		issues = append(issues, NewIssue(diagnostic.MissingAuthorEmail, diagnostic.At("author", "email"), ""))
	}
	if m.License == nil || strings.TrimSpace(*m.License) == "" {
		issues = append(issues, NewIssue(diagnostic.MissingLicense, diagnostic.At("license"), ""))
	}
	if (m.Icon == nil || *m.Icon == "") && len(m.Icons) == 0 {
		issues = append(issues, NewIssue(diagnostic.MissingIcon, diagnostic.At("icon"), ""))
	}
	if m.LongDescription == nil || strings.TrimSpace(*m.LongDescription) == "" {
		issues = append(issues, NewIssue(diagnostic.MissingLongDescription, diagnostic.At("long_description"), ""))
	}

	if ctx.Dir == "" {
		return issues
	}
	if !exists(ctx.Dir, IgnoreFile) {
		issues = append(issues, NewIssue(diagnostic.MissingIgnoreFile, diagnostic.Root(), ""))
	}
	if m.Server.Type != nil && !m.IsReference() {
		if i, ok := dependencies(ctx.Dir, *m.Server.Type); !ok {
			issues = append(issues, i)
		}
	}
	return issues
}

func dependencies(dir string, t manifest.ServerType) (Issue, bool) {
	switch t {
	case manifest.ServerNode:
		if !exists(dir, "node_modules") {
			return NewIssue(diagnostic.DependenciesNotBundled, locServer.Key("type"),
				"node_modules not found").WithHelp("run `npm install` (or your package manager) before packing"), false
		}
	case manifest.ServerPython:
		for _, d := range pythonDepDirs {
			if exists(dir, d) {
				return Issue{}, true
			}
		}
		return NewIssue(diagnostic.DependenciesNotBundled, locServer.Key("type"),
			"none of %s found", strings.Join(pythonDepDirs, ", ")).
			WithHelp("install dependencies into server/lib or a virtual environment before packing"), false
	}
	return Issue{}, true
}

func exists(dir, rel string) bool {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	return err == nil
}
