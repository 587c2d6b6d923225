package validator

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/paths"
)

const dirnamePrefix = "${__dirname}"

// unsafePath returns why rel cannot name a file inside the bundle, or "".
func unsafePath(rel string) string {
	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, `\`) || filepath.IsAbs(rel) || hasDrive(rel) {
		return "is an absolute path"
	}
	for _, part := range strings.FieldsFunc(rel, isSep) {
		if part == ".." {
			return "contains a parent-directory component"
		}
	}
	return ""
}

func isSep(r rune) bool { return r == '/' || r == '\\' }

func hasDrive(p string) bool {
	return len(p) >= 2 && p[1] == ':' && (p[0] >= 'a' && p[0] <= 'z' || p[0] >= 'A' && p[0] <= 'Z')
}

// checkFile reports E013 when rel escapes the bundle, either lexically or
// through a symlink, and missing when the file does not exist under
// ctx.Dir. An empty missing code leaves absent files to another category.
// File system checks are skipped when the manifest was not loaded from a
// directory.
func checkFile(ctx *Context, loc diagnostic.Path, rel string, missing diagnostic.Code) []Issue {
	if reason := unsafePath(rel); reason != "" {
		return []Issue{NewIssue(diagnostic.PathSafety, loc, "%q %s", rel, reason)}
	}
	if ctx.Dir == "" {
		return nil
	}
	full := filepath.Join(ctx.Dir, filepath.FromSlash(rel))
	if _, err := os.Stat(full); err != nil {
		if missing == "" {
			return nil
		}
		return []Issue{NewIssue(missing, loc, "file %q does not exist", rel)}
	}
	if escapesViaLink(ctx.Dir, full) {
		return []Issue{NewIssue(diagnostic.PathSafety, loc, "%q resolves outside the bundle through a symlink", rel)}
	}
	return nil
}

func escapesViaLink(root, full string) bool {
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return false
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false
	}
	ok, err := paths.Within(realRoot, resolved)
	return err == nil && !ok
}

// bundleRelative strips a leading ${__dirname}/ from s. It reports false
// when s does not start with it.
func bundleRelative(s string) (string, bool) {
	rest, ok := strings.CutPrefix(s, dirnamePrefix)
	if !ok {
		return "", false
	}
	if rest == "" {
		return ".", true
	}
	if rest[0] != '/' && rest[0] != '\\' {
		return "", false
	}
	return rest[1:], true
}

// scriptFiles returns the tokens of a script command that name files
// relative to the bundle: tokens with a path separator that are neither
// flags, URLs nor absolute system paths.
func scriptFiles(cmd string) []string {
	var files []string
	for _, tok := range strings.Fields(cmd) {
		tok = strings.Trim(tok, `"'`)
		if rel, ok := bundleRelative(tok); ok {
			files = append(files, rel)
			continue
		}
		switch {
		case tok == "", strings.HasPrefix(tok, "-"), strings.Contains(tok, "://"):
		case strings.Contains(tok, "$"):
		case strings.HasPrefix(tok, "/"), hasDrive(tok):
		case strings.ContainsAny(tok, `/\`):
			files = append(files, tok)
		}
	}
	return files
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "http://")
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
