// Package manifest provides the typed model of an MCPB bundle manifest.
//
// A bundle is a directory holding a manifest.json that describes how to
// launch an MCP server: the command or URL, environment, headers, OAuth
// settings, user-configurable fields and per-platform overrides.
//
// # Decoding
//
// [Parse] accepts JSON with comments and trailing commas. The document is
// checked against an embedded CUE schema before it is decoded, so a wrong
// value type is reported with its JSON path:
//
//	manifest.json: server.mcp_config.args: conflicting values "x" and [...string]
//
// Any decoding failure is a single [*StructuralError]. Semantic problems
// (bad name, bad semver, missing description) are left to the validator.
//
// # Optional Values
//
// Optional scalars are pointers and optional collections are nil when
// absent. "Not given" means "apply the default", which is different from
// an explicit empty value; override args rely on this distinction.
//
// # Store Metadata
//
// Registry-specific data lives under _meta["store.tool.mcpb"]: extra
// platform overrides, build scripts, the package manager and static
// tools/list responses. [Manifest.Store] decodes it on demand.
package manifest
