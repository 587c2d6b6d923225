// Package cmd holds build metadata injected with -ldflags.
package cmd

// Build-time variables set via ldflags, for example
// -X github.com/thoreinstein/mcpb/cmd.Version=1.2.0.
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
