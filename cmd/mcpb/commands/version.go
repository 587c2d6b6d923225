package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpb/cmd"
	"github.com/thoreinstein/mcpb/internal/diagnostic"
	"github.com/thoreinstein/mcpb/internal/platform"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit and build date of mcpb, the manifest version it writes, and the platform it resolves for by default.`,
	Run: func(c *cobra.Command, _ []string) {
		w := c.OutOrStdout()
		fmt.Fprintf(w, "mcpb version %s\n", cmd.Version)
		fmt.Fprintf(w, "  commit:   %s\n", cmd.Commit)
		fmt.Fprintf(w, "  built:    %s\n", cmd.Date)
		fmt.Fprintf(w, "  manifest: %s\n", diagnostic.CurrentManifestVersion)
		if t, err := platform.Detect(); err == nil {
			fmt.Fprintf(w, "  platform: %s\n", t)
		} else {
			fmt.Fprintf(w, "  platform: unsupported (%s/%s)\n", runtime.GOOS, runtime.GOARCH)
		}
	},
}
