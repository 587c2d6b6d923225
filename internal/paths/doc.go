// Package paths provides cross-platform path resolution for mcpb.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// It locates the mcpb config directory and the well-known user directories
// (Desktop, Documents, Downloads) that manifest templates may reference.
//
// # User Directories
//
// [Desktop], [Documents] and [Downloads] use the directories reported by the
// platform (xdg-user-dirs on Linux, known folders on Windows). When nothing is
// reported they fall back to the conventional name under the home directory.
//
// # Containment
//
// [Within] checks that a cleaned path stays inside a root directory. Bundle
// packing uses it to refuse files that escape the bundle through symlinks or
// parent references.
package paths
