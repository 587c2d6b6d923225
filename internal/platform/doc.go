// Package platform detects the host platform and applies per-platform
// overrides to a manifest's launch configuration.
//
// # Platform Keys
//
// Overrides are keyed by OS ("darwin", "linux", "win32") or by OS and
// architecture ("darwin-arm64", "linux-x86_64"). Go's runtime names are
// mapped to these spellings by [Detect]; anything outside that matrix is
// an [*UnsupportedHostError].
//
// # Resolution Order
//
// Two override maps exist: server.mcp_config.platform_overrides and
// _meta["store.tool.mcpb"].mcp_config.platform_overrides. For a target
// darwin-arm64 the lookup order is:
//
//  1. store "darwin-arm64"
//  2. mcp_config "darwin-arm64"
//  3. mcp_config "darwin"
//  4. store "darwin"
//  5. the base config unchanged
//
// The first hit is applied alone. See [ResolveOverrides] for merge rules.
package platform
