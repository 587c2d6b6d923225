package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/errors"
)

var (
	codesJSON    bool
	codesRetired bool
)

func init() {
	codesCmd.Flags().BoolVar(&codesJSON, "json", false, "output as JSON")
	codesCmd.Flags().BoolVar(&codesRetired, "all", false, "include retired codes")
	rootCmd.AddCommand(codesCmd)
}

var codesCmd = &cobra.Command{
	Use:   "codes [code...]",
	Short: "List diagnostic codes",
	Long: `List the diagnostic codes reported by mcpb validate. Errors (E) block
packing; warnings (W) do not. Codes are never renumbered or reused.`,
	Example: `  # Every active code
  mcpb codes

  # Look up specific codes
  mcpb codes E013 W017

  See Also: mcpb validate`,
	RunE: runCodes,
}

func runCodes(cmd *cobra.Command, args []string) error {
	var defs []diagnostic.Definition
	if len(args) > 0 {
		for _, a := range args {
			d, ok := diagnostic.Lookup(diagnostic.Code(a))
			if !ok {
				return errors.NewUserError(errors.Newf("unknown code %q", a), "run mcpb codes to list every code")
			}
			defs = append(defs, d)
		}
	} else {
		for _, d := range diagnostic.All() {
			if d.Retired && !codesRetired {
				continue
			}
			defs = append(defs, d)
		}
	}

	if codesJSON {
		return writeJSON(cmd.OutOrStdout(), defs)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSEVERITY\tTITLE\tHELP")
	for _, d := range defs {
		title := d.Title
		if d.Retired {
			title = "(retired)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Code, d.Severity, title, d.Help)
	}
	return errors.Wrap(tw.Flush(), "writing table")
}
