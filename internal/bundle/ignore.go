package bundle

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/validator"
)

// Path components that are never packed, whatever .mcpbignore says.
var builtinIgnores = []string{".git", "*.mcpb", "*.mcpbx"}

// DefaultIgnores are applied before .mcpbignore, which may re-include any
// of them with a "!pattern" line.
var DefaultIgnores = []string{
	".DS_Store",
	"Thumbs.db",
	".idea/",
	".vscode/",
	"*.swp",
	"*.swo",
	validator.IgnoreFile,
	".venv/",
}

// matcher decides which bundle paths are left out of the archive.
type matcher struct {
	rules *ignore.GitIgnore
}

// newMatcher compiles the default patterns followed by dir/.mcpbignore.
func newMatcher(dir string) (*matcher, error) {
	lines := append([]string{}, DefaultIgnores...)
	data, err := os.ReadFile(filepath.Join(dir, validator.IgnoreFile))
	switch {
	case err == nil:
		lines = append(lines, strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")...)
	case !os.IsNotExist(err):
		return nil, errors.Wrapf(err, "reading %s", validator.IgnoreFile)
	}
	return &matcher{rules: ignore.CompileIgnoreLines(lines...)}, nil
}

// ignored reports whether rel (slash or OS separated) is excluded.
func (m *matcher) ignored(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	if builtinIgnored(rel) {
		return true
	}
	if isDir {
		rel += "/"
	}
	return m.rules.MatchesPath(rel)
}

func builtinIgnored(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		for _, pattern := range builtinIgnores {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}
