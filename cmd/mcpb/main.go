// Package main is the entry point for the mcpb CLI.
package main

import (
	"os"

	"github.com/thoreinstein/mcpb/cmd/mcpb/commands"
	"github.com/thoreinstein/mcpb/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
