// Package commands implements the mcpb CLI.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpb/cmd"
	"github.com/thoreinstein/mcpb/internal/config"
	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/logging"
)

// debugEnv mirrors -vv when set to 1 or true, and -vvv when set to 2.
const debugEnv = "MCPB_DEBUG"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// appConfig is the loaded application config; nil until initConfig runs.
var appConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format: text, json (default from config, else text)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("mcpb version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	appConfig, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "mcpb",
	Short: "Build, check and resolve MCPB bundles",
	Long: `mcpb works with MCPB bundles: directories holding a manifest.json that
describes how to launch an MCP server on every supported platform.

It validates manifests against a stable set of diagnostic codes, resolves
the launch configuration for a platform and a set of config values, and
packs bundles into archives once they pass validation.`,
	Example: `  # Start a new bundle
  mcpb init my-server --type node

  # Check the bundle in the current directory
  mcpb validate

  # Show the launch configuration for this machine
  mcpb resolve --set api_key=sk-123

  # Build the archive
  mcpb pack

  See Also: mcpb codes, mcpb config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"),
			"pass only one of -q or -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		if v == 0 {
			switch os.Getenv(debugEnv) {
			case "1", "true":
				v = 2
			case "2":
				v = 3
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	formatName := logFormat
	if formatName == "" && appConfig != nil {
		formatName = appConfig.LogFormat
	}
	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return errors.NewUserError(err, "use --log-format text or --log-format json")
	}

	cfg := logging.Config{Level: level, Format: format, Output: cmd.ErrOrStderr()}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "check the --log-file path")
		}
		cfg.File = f
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

// checkConfig surfaces a broken config file, except to the commands
// needed to fix it.
func checkConfig(cmd *cobra.Command) error {
	if configLoadErr == nil {
		return nil
	}
	if cmd.Name() == "help" {
		return nil
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd || c == versionCmd {
			return nil
		}
	}
	return errors.NewConfigError(configLoadErr)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
