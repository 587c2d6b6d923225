package validator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/manifest"
)

const baseManifest = `{
  "manifest_version": "0.3",
  "name": "hello-world",
  "version": "1.0.0",
  "description": "Says hello",
  "long_description": "Says hello to whoever asks.",
  "author": {"name": "Ada", "email": "ada@example.com"},
  "license": "MIT",
  "icon": "icon.png",
  "server": {
    "type": "node",
    "entry_point": "server/index.js",
    "mcp_config": {
      "command": "node",
      "args": ["${__dirname}/server/index.js"]
    }
  }
}`

// baseFiles completes baseManifest into a bundle with no issues.
var baseFiles = []string{"server/index.js", "icon.png", "node_modules/", IgnoreFile}

type edit func(doc map[string]any)

// set assigns v at a dotted path, creating objects on the way.
func set(path string, v any) edit {
	return func(doc map[string]any) {
		keys := strings.Split(path, ".")
		obj := doc
		for _, k := range keys[:len(keys)-1] {
			next, ok := obj[k].(map[string]any)
			if !ok {
				next = map[string]any{}
				obj[k] = next
			}
			obj = next
		}
		obj[keys[len(keys)-1]] = v
	}
}

// del removes the member at a dotted path.
func del(path string) edit {
	return func(doc map[string]any) {
		keys := strings.Split(path, ".")
		obj := doc
		for _, k := range keys[:len(keys)-1] {
			next, ok := obj[k].(map[string]any)
			if !ok {
				return
			}
			obj = next
		}
		delete(obj, keys[len(keys)-1])
	}
}

// store assigns v under _meta["store.tool.mcpb"].
func store(key string, v any) edit {
	return func(doc map[string]any) {
		meta, ok := doc["_meta"].(map[string]any)
		if !ok {
			meta = map[string]any{}
			doc["_meta"] = meta
		}
		ns, ok := meta[manifest.StoreNamespace].(map[string]any)
		if !ok {
			ns = map[string]any{}
			meta[manifest.StoreNamespace] = ns
		}
		set(key, v)(ns)
	}
}

func manifestJSON(t *testing.T, edits ...edit) []byte {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(baseManifest), &doc); err != nil {
		t.Fatalf("base manifest: %v", err)
	}
	for _, e := range edits {
		e(doc)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	return data
}

// parse builds a manifest with no bundle directory, so file checks are off.
func parse(t *testing.T, edits ...edit) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse(manifestJSON(t, edits...))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return m
}

// bundle writes the manifest and files into a temp dir and loads it.
// Names ending in "/" become directories.
func bundle(t *testing.T, files []string, edits ...edit) *manifest.Manifest {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, files...)
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), manifestJSON(t, edits...), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m
}

func writeFiles(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(dir, filepath.FromSlash(f))
		if strings.HasSuffix(f, "/") {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func run(c Category, m *manifest.Manifest) []Issue {
	return c.Check(&Context{Manifest: m, Dir: m.BundlePath})
}

func codes(issues []Issue) []diagnostic.Code {
	out := make([]diagnostic.Code, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

// find returns the first issue with code, failing the test when absent.
func find(t *testing.T, issues []Issue, code diagnostic.Code) Issue {
	t.Helper()
	for _, i := range issues {
		if i.Code == code {
			return i
		}
	}
	t.Fatalf("no %s issue in %v", code, codes(issues))
	return Issue{}
}

// hasIssue reports whether issues contain code at loc.
func hasIssue(issues []Issue, code diagnostic.Code, loc string) bool {
	for _, i := range issues {
		if i.Code == code && i.Location.String() == loc {
			return true
		}
	}
	return false
}

func locations(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, string(i.Code)+" "+i.Location.String())
	}
	return out
}
