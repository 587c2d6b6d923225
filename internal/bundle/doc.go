// Package bundle turns a bundle directory into something a host can use.
//
// [Resolve] produces the concrete launch configuration for one platform
// and one set of configuration values. [Pack] validates a bundle and
// writes it as a zip archive, refusing bundles that do not pass
// validation.
package bundle
