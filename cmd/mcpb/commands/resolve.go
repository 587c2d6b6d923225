package commands

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpb/internal/bundle"
	"github.com/thoreinstein/mcpb/internal/config"
	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/logging"
	"github.com/thoreinstein/mcpb/internal/manifest"
	"github.com/thoreinstein/mcpb/internal/redact"
)

var (
	resolveValues   string
	resolveSet      []string
	resolveSystem   []string
	resolveOAuth    []string
	resolvePlatform string
	resolveJSON     bool
)

func init() {
	resolveCmd.Flags().StringVarP(&resolveValues, "values", "f", "",
		"values file (.yaml, .toml or .json) with user_config, system_config and oauth sections")
	resolveCmd.Flags().StringArrayVar(&resolveSet, "set", nil, "user_config value as name=value (repeatable)")
	resolveCmd.Flags().StringArrayVar(&resolveSystem, "system", nil, "system_config value as name=value (repeatable)")
	resolveCmd.Flags().StringArrayVar(&resolveOAuth, "oauth", nil, "oauth value as name=value (repeatable)")
	resolveCmd.Flags().StringVar(&resolvePlatform, "platform", "",
		"platform to resolve for, os-arch (default: this machine)")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [dir]",
	Short: "Show the launch configuration of a bundle",
	Long: `Apply the platform override for the target platform and expand every
${...} placeholder in the bundle's mcp_config.

Values are taken, lowest precedence first, from user_config defaults in
the mcpb config file, the config file's values file, --values, and the
--set/--system/--oauth flags. Sensitive values are masked in the output.`,
	Example: `  # Resolve for this machine
  mcpb resolve --set api_key=sk-123

  # Resolve for another platform from a values file
  mcpb resolve ./weather --values values.yaml --platform win32-x86_64

  # Feed the result to another tool
  mcpb resolve --json | jq .mcp_config.command

  See Also: mcpb validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(bundleDir(args))
	if err != nil {
		return errors.NewUserError(err, "run mcpb validate for details")
	}

	vals, err := collectValues(m)
	if err != nil {
		return errors.NewUserError(err, "check the --values file and name=value flags")
	}

	var opts bundle.ResolveOptions
	opts.Values = vals
	if resolvePlatform != "" {
		if opts.Target, err = targetFlag(resolvePlatform); err != nil {
			return err
		}
	}

	secrets := suppliedSecrets(m, vals)
	opts.Logger = slog.New(logging.NewScrubHandler(logging.FromContext(cmd.Context()).Handler(), secrets))

	res, err := bundle.Resolve(m, opts)
	if err != nil {
		return errors.NewUserError(err, "supply values with --set name=value or --values file")
	}

	summary := res.Masked()
	if resolveJSON {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

// collectValues layers config-file defaults, values files and flags.
func collectValues(m *manifest.Manifest) (*config.Values, error) {
	vals := config.NewValues()
	if appConfig != nil && m.Name != nil {
		maps.Copy(vals.User, appConfig.BundleDefaults(*m.Name))
	}

	for _, path := range []string{configValuesFile(), resolveValues} {
		if path == "" {
			continue
		}
		file, err := config.LoadValues(path)
		if err != nil {
			return nil, err
		}
		vals.Merge(file)
	}

	for _, f := range []struct {
		pairs []string
		dst   map[string]string
	}{
		{resolveSet, vals.User},
		{resolveSystem, vals.System},
		{resolveOAuth, vals.OAuth},
	} {
		parsed, err := config.ParseAssignments(f.pairs)
		if err != nil {
			return nil, err
		}
		maps.Copy(f.dst, parsed)
	}
	return vals, nil
}

func configValuesFile() string {
	if appConfig == nil {
		return ""
	}
	return appConfig.Values
}

// suppliedSecrets collects values that must never reach the log.
func suppliedSecrets(m *manifest.Manifest, vals *config.Values) *redact.Secrets {
	s := redact.NewSecrets()
	for _, name := range m.SensitiveFields() {
		if v, ok := vals.User[name]; ok {
			s.Add(v)
		}
	}
	for _, v := range vals.OAuth {
		s.Add(v)
	}
	return s
}

func printSummary(w io.Writer, s bundle.Summary) {
	label := color.New(color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	title := fmt.Sprintf("%s %s", s.Name, s.Version)
	if s.Reference {
		title += dim(" (reference)")
	}
	fmt.Fprintf(w, "%s %s\n", label("Bundle:   "), title)

	platformLine := s.Platform
	if s.Override != "" {
		platformLine += dim(" (override " + s.Override + ")")
	}
	fmt.Fprintf(w, "%s %s\n", label("Platform: "), platformLine)
	fmt.Fprintf(w, "%s %s\n", label("Transport:"), s.Transport)

	cfg := s.MCPConfig
	if cfg.Command != "" {
		fmt.Fprintf(w, "%s %s\n", label("Command:  "), cfg.Command)
	}
	if len(cfg.Args) > 0 {
		fmt.Fprintf(w, "%s %s\n", label("Args:     "), strings.Join(cfg.Args, " "))
	}
	if cfg.URL != "" {
		fmt.Fprintf(w, "%s %s\n", label("URL:      "), cfg.URL)
	}
	printMap(w, label("Env:"), cfg.Env)
	printMap(w, label("Headers:"), cfg.Headers)
}

func printMap(w io.Writer, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(w, "  %s=%s\n", k, m[k])
	}
}
