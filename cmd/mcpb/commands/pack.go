package commands

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpb/internal/bundle"
	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/logging"
	"github.com/thoreinstein/mcpb/internal/validator"
)

var (
	packOutput     string
	packNoValidate bool
)

func init() {
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "archive path (default: <name>-<version>.<ext> in the bundle)")
	packCmd.Flags().BoolVar(&packNoValidate, "no-validate", false, "skip validation; path safety is still enforced")
	rootCmd.AddCommand(packCmd)
}

var packCmd = &cobra.Command{
	Use:   "pack [dir]",
	Short: "Pack a bundle into an archive",
	Long: `Validate the bundle in dir (default: the current directory) and write it
as a zip archive. Bundles with validation errors are refused.

Files matched by .mcpbignore are left out, as are .git, existing archives
and editor droppings. Bundles that use HTTP, system_config or reference
mode are written as .mcpbx, everything else as .mcpb.`,
	Example: `  # Pack the current directory
  mcpb pack

  # Choose the archive location
  mcpb pack ./weather -o dist/weather.mcpb

  See Also: mcpb validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPack,
}

func runPack(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())
	w := cmd.OutOrStdout()

	res, err := bundle.Pack(bundleDir(args), bundle.PackOptions{
		Output:         packOutput,
		SkipValidation: packNoValidate,
		Engine:         validator.NewEngine(validator.WithLogger(logger)),
		Logger:         logger,
	})
	if err != nil {
		var ve *bundle.ValidationError
		if errors.As(err, &ve) {
			if rerr := validator.NewReporter(w, validator.FormatText).Report(ve.Result); rerr != nil {
				return errors.NewSystemError(rerr, "")
			}
			return errors.NewUserError(err, "fix the errors above, then run mcpb pack again")
		}
		if errors.Is(err, bundle.ErrPathSafety) {
			return errors.NewUserError(err, "keep every bundled path inside the bundle directory")
		}
		return errors.NewSystemError(err, "")
	}

	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓ Packed"), filepath.Base(res.Path))
	fmt.Fprintf(w, "  files:    %d (%s)\n", res.Files, humanize.Bytes(res.Size))
	fmt.Fprintf(w, "  archive:  %s\n", humanize.Bytes(res.CompressedSize))
	fmt.Fprintf(w, "  blake3:   %s\n", res.Checksum)
	if len(res.Ignored) > 0 {
		fmt.Fprintf(w, "  ignored:  %d path(s)\n", len(res.Ignored))
		for _, p := range res.Ignored {
			logger.Debug("ignored path", "path", p)
		}
	}
	if res.Validation != nil && res.Validation.HasWarnings() {
		fmt.Fprintln(w, color.YellowString("  %d warning(s); run mcpb validate for details", len(res.Validation.Warnings())))
	}
	return nil
}
