// Package template expands ${...} placeholders in launch configuration.
//
// A placeholder opens with "${" and closes at the first "}". The sequence
// "$${" is the only escape and produces a literal "${". Everything else is
// copied through unchanged. Expansion is a single pass over the tokens
// produced by [Scan]: text inserted for a placeholder is never scanned
// again.
//
// Expressions take three forms:
//
//	${user_config.api_key}      namespaced reference
//	${__dirname}                bare builtin
//	${basicAuth(user_config.user, "secret")}
//
// Recognised namespaces are user_config, system_config, platform and
// oauth. Bare names must be one of the builtins (__dirname, HOME, DESKTOP,
// DOCUMENTS, DOWNLOADS). The functions base64 and basicAuth take
// references or double-quoted literals.
//
// A [Resolver] looks each reference up in layers, most specific first:
// values supplied for this run, declared defaults, builtins computed for
// the target platform, and finally OAuth values from an external token
// source. A reference nothing can satisfy is a [*ReferenceError]; an
// unknown namespace, builtin or function is a [*DeclarationError].
// Neither ever yields an empty substitution.
package template
