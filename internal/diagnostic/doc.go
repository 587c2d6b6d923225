// Package diagnostic is the registry of stable validation codes.
//
// Every issue the validator reports carries a [Code] such as E013 or W010.
// Codes are public contract: tooling greps for them, CI pipelines allow-list
// them and documentation links to them. A code is never renumbered and a
// retired code is never reused, so the registry only ever grows.
//
// Codes starting with E have [SeverityError] and block pack and publish.
// Codes starting with W have [SeverityWarning] and only fail under --strict.
//
// # Locations
//
// [Path] addresses a node of the manifest document. It renders the way a
// JSON path is usually written by hand:
//
//	diagnostic.Root().Key("tools").Index(2).Key("name")   // tools[2].name
//	diagnostic.Root().Key("_meta").Key("store.tool.mcpb") // _meta["store.tool.mcpb"]
package diagnostic
