package commands

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/git"
	"github.com/thoreinstein/mcpb/internal/logging"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/pkg/fileutil"
)

var (
	initType           string
	initTransport      string
	initReference      bool
	initPackageManager string
	initName           string
	initForce          bool
)

func init() {
	initCmd.Flags().StringVarP(&initType, "type", "t", "", "server type: node, python, binary (prompts on a terminal when omitted)")
	initCmd.Flags().StringVar(&initTransport, "transport", "stdio", "transport: stdio, http")
	initCmd.Flags().BoolVar(&initReference, "reference", false, "describe a server that is not bundled")
	initCmd.Flags().StringVar(&initPackageManager, "package-manager", "", "package manager for scripts.build (default: first for the type)")
	initCmd.Flags().StringVar(&initName, "name", "", "package name (default: derived from the directory)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new bundle",
	Long: `Create manifest.json and starter files for a new bundle in dir
(default: the current directory).

Author and repository are filled from the local git configuration when
available. Without --type on a terminal, the server type is chosen from a
fuzzy finder; otherwise it defaults to node.`,
	Example: `  # Node server over stdio
  mcpb init weather --type node

  # Python server over HTTP managed by uv
  mcpb init --type python --transport http --package-manager uv

  # Metadata for a server installed elsewhere
  mcpb init remote-tools --reference

  See Also: mcpb validate, mcpb pack`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(bundleDir(args))
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	manifestPath := filepath.Join(dir, manifest.FileName)
	if _, err := os.Stat(manifestPath); err == nil && !initForce {
		return errors.NewUserError(errors.Newf("%s already exists", manifestPath), "use --force to overwrite it")
	}

	mode := manifest.Mode{
		Transport:      manifest.Transport(initTransport),
		PackageManager: manifest.PackageManager(initPackageManager),
		Reference:      initReference,
		Name:           initName,
	}
	if mode.Name == "" {
		mode.Name = packageName(filepath.Base(dir))
	}
	if !initReference {
		mode.Type = manifest.ServerType(initType)
		if mode.Type == "" {
			if mode.Type, err = chooseServerType(); err != nil {
				return err
			}
		}
	}

	m, err := manifest.Scaffold(mode)
	if err != nil {
		return errors.NewUserError(err, "run mcpb init --help for valid values")
	}
	fillFromGit(m, dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating bundle directory"), "")
	}
	if err := fileutil.AtomicWriteJSON(manifestPath, m, 0o644); err != nil {
		return errors.NewSystemError(err, "")
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Created %s\n", manifestPath)

	files := manifest.ScaffoldFiles(mode)
	for _, rel := range slices.Sorted(maps.Keys(files)) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err == nil && !initForce {
			fmt.Fprintf(w, "Kept existing %s\n", rel)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.NewSystemError(errors.Wrapf(err, "creating directory for %s", rel), "")
		}
		if err := fileutil.AtomicWriteFile(path, []byte(files[rel]), 0o644); err != nil {
			return errors.NewSystemError(err, "")
		}
		fmt.Fprintf(w, "Created %s\n", rel)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  1. Fill in description and author in manifest.json")
	fmt.Fprintln(w, "  2. Run: mcpb validate "+bundleDir(args))
	return nil
}

// packageName lowercases base and replaces characters a package name
// cannot hold. It returns "" when no valid name can be derived.
func packageName(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	name := strings.TrimRight(strings.TrimLeft(b.String(), "-0123456789"), "-")
	if !manifest.ValidPackageName(name) {
		return ""
	}
	return name
}

func fillFromGit(m *manifest.Manifest, dir string) {
	if name, email := git.Author(dir); name != "" {
		m.Author = &manifest.Author{Name: name}
		if email != "" {
			m.Author.Email = manifest.Ptr(email)
		}
	}
	if u, err := git.RemoteURL(dir); err == nil {
		m.Repository = &manifest.Repository{Type: "git", URL: u}
	}
}

// serverTypes lists the choices offered by chooseServerType.
var serverTypes = []struct {
	Type        manifest.ServerType
	Description string
}{
	{manifest.ServerNode, "JavaScript entry point run with node; dependencies in node_modules"},
	{manifest.ServerPython, "Python entry point; dependencies vendored or managed by uv/pip/poetry"},
	{manifest.ServerBinary, "Self-contained executable, usually one per platform"},
}

// chooseServerType prompts with a fuzzy finder on a terminal and falls
// back to node otherwise.
func chooseServerType() (manifest.ServerType, error) {
	if !logging.Interactive(os.Stdin) || !logging.Interactive(os.Stdout) {
		return manifest.ServerNode, nil
	}
	idx, err := fuzzyfinder.Find(
		serverTypes,
		func(i int) string { return string(serverTypes[i].Type) },
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return serverTypes[i].Description
		}),
		fuzzyfinder.WithPromptString("server type> "),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errors.NewUserError(errors.New("init cancelled"), "pass --type to skip the prompt")
		}
		return "", errors.NewSystemError(errors.Wrap(err, "choosing server type"), "pass --type to skip the prompt")
	}
	return serverTypes[idx].Type, nil
}
