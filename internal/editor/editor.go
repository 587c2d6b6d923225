// Package editor launches the user's text editor on a file.
package editor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/mcpb/internal/errors"
)

// Open runs the user's editor on path and waits for it to exit. The
// location is announced on w first.
func Open(w io.Writer, path string) error {
	name, args := Command()

	fmt.Fprintf(w, "Editing %s\n", path)

	cmd := exec.Command(name, append(args, path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", name)
	}
	return nil
}

// Command returns the editor program and its leading arguments.
// Fallback chain: $MCPB_EDITOR, $EDITOR, $VISUAL, nano, vi. A value such
// as "code --wait" is split on whitespace.
func Command() (string, []string) {
	for _, env := range []string{"MCPB_EDITOR", "EDITOR", "VISUAL"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields[0], fields[1:]
		}
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano", nil
	}
	return "vi", nil
}
