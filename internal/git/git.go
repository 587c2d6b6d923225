// Package git reads bundle metadata from a local git checkout.
package git

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/thoreinstein/mcpb/internal/errors"
)

// ErrNotAvailable is returned when git is not installed or dir is not
// inside a repository.
var ErrNotAvailable = errors.New("git metadata not available")

// ConfigValue returns `git config --get key` as seen from dir.
func ConfigValue(dir, key string) (string, error) {
	return run(dir, "config", "--get", key)
}

// Author returns user.name and user.email from the git configuration.
// Missing values are empty.
func Author(dir string) (name, email string) {
	name, _ = ConfigValue(dir, "user.name")
	email, _ = ConfigValue(dir, "user.email")
	return name, email
}

// RemoteURL returns the URL of the origin remote in a browsable form:
// SSH remotes such as git@host:org/repo.git become https://host/org/repo.
func RemoteURL(dir string) (string, error) {
	raw, err := run(dir, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return normalizeRemote(raw), nil
}

func normalizeRemote(raw string) string {
	u := strings.TrimSuffix(strings.TrimSpace(raw), ".git")
	if rest, ok := strings.CutPrefix(u, "git@"); ok {
		host, path, found := strings.Cut(rest, ":")
		if found {
			return "https://" + host + "/" + path
		}
	}
	if rest, ok := strings.CutPrefix(u, "ssh://git@"); ok {
		return "https://" + rest
	}
	return u
}

func run(dir string, args ...string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", errors.Wrap(ErrNotAvailable, "git not found in PATH")
	}
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(ErrNotAvailable, "git %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", errors.Wrapf(ErrNotAvailable, "git %s: empty output", strings.Join(args, " "))
	}
	return out, nil
}
