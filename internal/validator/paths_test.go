package validator

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		edits []edit
		code  diagnostic.Code
		loc   string
	}{
		{
			name:  "entry point missing",
			files: []string{"icon.png"},
			code:  diagnostic.EntryPointNotFound,
			loc:   "server.entry_point",
		},
		{
			name:  "entry point escapes",
			files: baseFiles,
			edits: []edit{set("server.entry_point", "../outside.js")},
			code:  diagnostic.PathSafety,
			loc:   "server.entry_point",
		},
		{
			name:  "absolute icon",
			files: baseFiles,
			edits: []edit{set("icon", "/tmp/icon.png")},
			code:  diagnostic.PathSafety,
			loc:   "icon",
		},
		{
			name:  "icon missing",
			files: []string{"server/index.js"},
			code:  diagnostic.FileNotFound,
			loc:   "icon",
		},
		{
			name:  "icons entry missing",
			files: baseFiles,
			edits: []edit{set("icons", []any{map[string]any{"src": "icons/16.png", "size": "16x16"}})},
			code:  diagnostic.FileNotFound,
			loc:   "icons[0].src",
		},
		{
			name:  "dirname arg missing",
			files: baseFiles,
			edits: []edit{set("server.mcp_config.args", []any{"${__dirname}/server/index.js", "${__dirname}/config.json"})},
			code:  diagnostic.FileNotFound,
			loc:   "server.mcp_config.args[1]",
		},
		{
			name:  "dirname arg escapes",
			files: baseFiles,
			edits: []edit{set("server.mcp_config.args", []any{"${__dirname}/../../etc/passwd"})},
			code:  diagnostic.PathSafety,
			loc:   "server.mcp_config.args[0]",
		},
		{
			name:  "override command escapes",
			files: baseFiles,
			edits: []edit{set("server.mcp_config.platform_overrides", map[string]any{
				"win32": map[string]any{"command": "${__dirname}/../bin/server.exe"},
			})},
			code: diagnostic.PathSafety,
			loc:  "server.mcp_config.platform_overrides.win32.command",
		},
		{
			name:  "script escapes",
			files: baseFiles,
			edits: []edit{store("scripts", map[string]any{"build": "sh ../../etc/passwd"})},
			code:  diagnostic.PathSafety,
			loc:   `_meta["store.tool.mcpb"].scripts.build`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := run(Paths{}, bundle(t, tt.files, tt.edits...))
			if !hasIssue(issues, tt.code, tt.loc) {
				t.Errorf("Paths.Check() = %v, want %s at %s", locations(issues), tt.code, tt.loc)
			}
		})
	}
}

func TestPaths_CleanBundle(t *testing.T) {
	issues := run(Paths{}, bundle(t, baseFiles))
	assert.Empty(t, issues)
}

func TestPaths_RemoteIconNotChecked(t *testing.T) {
	m := bundle(t, []string{"server/index.js"}, set("icon", "https://example.com/icon.png"))
	assert.Empty(t, run(Paths{}, m))
}

func TestPaths_NoDirectorySkipsExistence(t *testing.T) {
	m := parse(t, set("server.entry_point", "server/missing.js"))
	assert.Empty(t, run(Paths{}, m))
}

func TestPaths_SymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.png"), []byte("x"), 0o644))

	m := bundle(t, []string{"server/index.js"})
	if err := os.Symlink(filepath.Join(outside, "secret.png"), filepath.Join(m.BundlePath, "icon.png")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	issues := run(Paths{}, m)

	i := find(t, issues, diagnostic.PathSafety)
	assert.Equal(t, "icon", i.Location.String())
}

func TestPaths_SymlinkEscapeInLaunchAndScripts(t *testing.T) {
	tests := []struct {
		name string
		link string
		edit edit
		want string
	}{
		{
			name: "store script",
			link: "scripts/build.js",
			edit: store("scripts", map[string]any{"build": "node scripts/build.js"}),
			want: `_meta["store.tool.mcpb"].scripts.build`,
		},
		{
			name: "override command",
			link: "bin/tool.exe",
			edit: set("server.mcp_config.platform_overrides", map[string]any{
				"win32": map[string]any{"command": "${__dirname}/bin/tool.exe"},
			}),
			want: "server.mcp_config.platform_overrides.win32.command",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outside := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(outside, "target"), []byte("x"), 0o755))

			m := bundle(t, append(slices.Clone(baseFiles), path.Dir(tt.link)+"/"), tt.edit)
			if err := os.Symlink(filepath.Join(outside, "target"), filepath.Join(m.BundlePath, filepath.FromSlash(tt.link))); err != nil {
				t.Skipf("symlinks unavailable: %v", err)
			}

			issues := run(Paths{}, m)

			i := find(t, issues, diagnostic.PathSafety)
			assert.Equal(t, tt.want, i.Location.String())
		})
	}
}
