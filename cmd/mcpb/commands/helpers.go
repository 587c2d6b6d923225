package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/platform"
)

// bundleDir returns the directory argument, defaulting to ".".
func bundleDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

// targetFlag parses a --platform value. Empty detects the host; a host
// mcpb cannot map yields nil so that platform-specific checks are skipped.
func targetFlag(s string) (*platform.Target, error) {
	if s == "" {
		if t, err := platform.Detect(); err == nil {
			return &t, nil
		}
		return nil, nil
	}
	t, err := platform.ParseTarget(s)
	if err != nil {
		return nil, errors.NewUserError(err, "use os or os-arch, e.g. darwin, linux-x86_64, win32-arm64")
	}
	return &t, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}

// PrintError writes err and, for an ExitError, its suggestion.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "%s %s\n", color.New(color.FgHiBlack).Sprint("Hint:"), exitErr.Suggestion)
	}
}
