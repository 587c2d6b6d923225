package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "mcpb"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or "" if it cannot be determined.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}

// CacheHome returns the XDG cache home directory.
func CacheHome() string {
	return xdg.CacheHome
}

// ConfigDirEnv overrides the application config directory.
const ConfigDirEnv = "MCPB_CONFIG_DIR"

// AppConfigDir returns the directory holding the mcpb config file:
// $MCPB_CONFIG_DIR when set, otherwise <config home>/mcpb.
func AppConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// Desktop returns the user's desktop directory.
// It falls back to ~/Desktop when the platform reports nothing.
func Desktop() string {
	return userDir(xdg.UserDirs.Desktop, "Desktop")
}

// Documents returns the user's documents directory.
func Documents() string {
	return userDir(xdg.UserDirs.Documents, "Documents")
}

// Downloads returns the user's downloads directory.
func Downloads() string {
	return userDir(xdg.UserDirs.Download, "Downloads")
}

func userDir(reported, fallback string) string {
	if reported != "" {
		return reported
	}
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, fallback)
}

// Within reports whether target, after cleaning, stays inside root.
// Both arguments are resolved to absolute paths first.
func Within(root, target string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, errors.Wrap(ErrInvalidPath, err.Error())
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, errors.Wrap(ErrInvalidPath, err.Error())
	}
	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return false, nil
	}
	return rel != ".." && !filepath.IsAbs(rel) && !hasParentPrefix(rel), nil
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && os.IsPathSeparator(rel[2])
}
