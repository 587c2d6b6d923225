package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/logging"
	"github.com/thoreinstein/mcpb/internal/validator"
)

var (
	validateStrict   bool
	validateJSON     bool
	validatePlatform string
)

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output results as JSON")
	validateCmd.Flags().StringVar(&validatePlatform, "platform", "",
		"platform to check overrides against, os or os-arch (default: this machine)")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check a bundle manifest",
	Long: `Check the manifest.json in dir (default: the current directory) and
report every problem found. Each issue carries a stable code; run
'mcpb codes' to list them.

The command fails when any error is reported. With --strict, or with
strict: true in the config file, warnings fail it too.`,
	Example: `  # Validate the current directory
  mcpb validate

  # Machine-readable output
  mcpb validate ./weather --json

  # Check that an override exists for Windows on ARM
  mcpb validate --platform win32-arm64

  See Also: mcpb codes, mcpb pack`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	target, err := targetFlag(validatePlatform)
	if err != nil {
		return err
	}

	opts := []validator.Option{validator.WithLogger(logging.FromContext(cmd.Context()))}
	if target != nil {
		opts = append(opts, validator.WithTarget(*target))
	}
	_, result := validator.NewEngine(opts...).ValidateDir(bundleDir(args))

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(cmd.OutOrStdout(), format).Report(result); err != nil {
		return errors.NewSystemError(err, "")
	}

	if !result.Passes() {
		return errors.NewUserError(errors.ErrValidationFailed, "fix the errors above and run mcpb validate again")
	}
	strict := validateStrict || (appConfig != nil && appConfig.Strict)
	if strict && result.HasWarnings() {
		return errors.NewUserError(errors.Wrap(errors.ErrValidationFailed, "warnings are fatal in strict mode"),
			"fix the warnings or run without --strict")
	}
	return nil
}
