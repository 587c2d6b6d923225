package manifest

import (
	"encoding/json"
	"slices"

	"github.com/cockroachdb/errors"
)

// PackageManager installs a bundle's dependencies before packing.
type PackageManager string

// Package managers.
const (
	NPM    PackageManager = "npm"
	PNPM   PackageManager = "pnpm"
	Bun    PackageManager = "bun"
	Yarn   PackageManager = "yarn"
	UV     PackageManager = "uv"
	Pip    PackageManager = "pip"
	Poetry PackageManager = "poetry"
)

var (
	nodeManagers   = []PackageManager{NPM, PNPM, Bun, Yarn}
	pythonManagers = []PackageManager{UV, Pip, Poetry}
)

// PackageManagers returns the managers that fit a server type, default first.
func PackageManagers(t ServerType) []PackageManager {
	switch t {
	case ServerNode:
		return slices.Clone(nodeManagers)
	case ServerPython:
		return slices.Clone(pythonManagers)
	}
	return nil
}

// Known reports whether pm is a recognised package manager.
func (pm PackageManager) Known() bool {
	return slices.Contains(nodeManagers, pm) || slices.Contains(pythonManagers, pm)
}

// Fits reports whether pm installs dependencies for server type t.
func (pm PackageManager) Fits(t ServerType) bool {
	return slices.Contains(PackageManagers(t), pm)
}

// BuildCommand is the dependency install command written to scripts.build.
func (pm PackageManager) BuildCommand() string {
	switch pm {
	case NPM:
		return "npm install"
	case PNPM:
		return "pnpm install"
	case Bun:
		return "bun install"
	case Yarn:
		return "yarn install"
	case UV:
		return "uv sync"
	case Pip:
		return "python3 -m venv .venv && .venv/bin/pip install -r requirements.txt"
	case Poetry:
		return "poetry install"
	}
	return ""
}

// runCommand returns the command and leading args that run a python script.
func (pm PackageManager) runCommand() (string, []string) {
	switch pm {
	case Pip:
		return ".venv/bin/python", nil
	case Poetry:
		return "poetry", []string{"run", "python"}
	default:
		return "uv", []string{"run"}
	}
}

// Mode selects what `mcpb init` scaffolds.
type Mode struct {
	// Type is the bundled runtime. Ignored in reference mode.
	Type ServerType
	// Transport defaults to stdio.
	Transport Transport
	// PackageManager defaults to the first manager for Type.
	PackageManager PackageManager
	// Reference scaffolds a manifest for a server that is not bundled.
	Reference bool
	// Name, if set, becomes the package name.
	Name string
}

// Scaffold file locations.
const (
	nodeEntry   = "server/index.js"
	pythonEntry = "server/main.py"
	binaryEntry = "server/bin/server"
	httpURL     = "http://${system_config.hostname}:${system_config.port}/mcp"
)

// Scaffold builds a new manifest for mode.
func Scaffold(mode Mode) (*Manifest, error) {
	if mode.Transport == "" {
		mode.Transport = TransportStdio
	}
	if mode.Transport != TransportStdio && mode.Transport != TransportHTTP {
		return nil, errors.Newf("unknown transport %q", mode.Transport)
	}

	m := &Manifest{
		ManifestVersion: "0.3",
		Version:         Ptr("0.1.0"),
		Description:     Ptr("An MCP server"),
		Server:          Server{Transport: mode.Transport},
	}
	if mode.Name != "" {
		if !ValidPackageName(mode.Name) {
			return nil, errors.Newf("invalid package name %q", mode.Name)
		}
		m.Name = Ptr(mode.Name)
	}
	if mode.Transport == TransportHTTP {
		m.SystemConfig = httpSystemConfig()
	}

	if mode.Reference {
		cfg := &MCPConfig{}
		if mode.Transport == TransportHTTP {
			cfg.URL = Ptr(httpURL)
		} else {
			cfg.Command = Ptr("npx")
		}
		m.Server.MCPConfig = cfg
		return m, nil
	}

	if !mode.Type.Valid() {
		return nil, errors.Newf("unknown server type %q", mode.Type)
	}
	m.Server.Type = Ptr(mode.Type)

	pm := mode.PackageManager
	if pm == "" {
		if managers := PackageManagers(mode.Type); len(managers) > 0 {
			pm = managers[0]
		}
	} else if !pm.Fits(mode.Type) {
		return nil, errors.Newf("package manager %q does not fit %s servers", pm, mode.Type)
	}

	cfg := &MCPConfig{}
	switch mode.Type {
	case ServerNode:
		m.Server.EntryPoint = Ptr(nodeEntry)
		cfg.Command = Ptr("node")
		cfg.Args = []string{"${__dirname}/" + nodeEntry}
		if mode.Transport == TransportHTTP {
			cfg.Args = append(cfg.Args, "--port=${system_config.port}", "--host=${system_config.hostname}")
		}
	case ServerPython:
		m.Server.EntryPoint = Ptr(pythonEntry)
		cmd, prefix := pm.runCommand()
		cfg.Command = Ptr(cmd)
		cfg.Args = append(prefix, pythonEntry)
		if mode.Transport == TransportHTTP {
			cfg.Args = append(cfg.Args, "--port", "${system_config.port}", "--host", "${system_config.hostname}")
		}
	case ServerBinary:
		m.Server.EntryPoint = Ptr(binaryEntry)
		cfg.Command = Ptr("${__dirname}/" + binaryEntry)
		if mode.Transport == TransportHTTP {
			cfg.Args = []string{"--port", "${system_config.port}", "--host", "${system_config.hostname}"}
		}
	}
	if mode.Transport == TransportHTTP {
		cfg.URL = Ptr(httpURL)
	}
	m.Server.MCPConfig = cfg

	if pm != "" {
		store, err := json.Marshal(Store{
			Scripts:        map[string]string{"build": pm.BuildCommand()},
			PackageManager: Ptr(string(pm)),
		})
		if err != nil {
			return nil, errors.Wrap(err, "encoding store metadata")
		}
		m.Meta = map[string]json.RawMessage{StoreNamespace: store}
	}
	return m, nil
}

func httpSystemConfig() map[string]SystemConfigField {
	return map[string]SystemConfigField{
		"port": {
			Type:        SystemPort,
			Title:       "Server Port",
			Description: Ptr("Port for the MCP HTTP endpoint"),
			Default:     float64(3000),
		},
		"hostname": {
			Type:        SystemHostname,
			Title:       "Bind Address",
			Description: Ptr("Network interface to bind to"),
			Default:     "127.0.0.1",
		},
	}
}

// ScaffoldFiles returns starter source files for mode, keyed by path
// relative to the bundle directory. Reference mode has none.
func ScaffoldFiles(mode Mode) map[string]string {
	if mode.Reference {
		return nil
	}
	files := map[string]string{".mcpbignore": ignoreTemplate}
	switch mode.Type {
	case ServerNode:
		files[nodeEntry] = nodeTemplate
	case ServerPython:
		files[pythonEntry] = pythonTemplate
	}
	return files
}

const ignoreTemplate = `# Files excluded from the bundle
*.log
.env
coverage/
tests/
`

const nodeTemplate = `#!/usr/bin/env node
// MCP server entry point. Replace with your implementation.
process.stdin.pipe(process.stdout);
`

const pythonTemplate = `"""MCP server entry point. Replace with your implementation."""
import sys

for line in sys.stdin:
    sys.stdout.write(line)
    sys.stdout.flush()
`
