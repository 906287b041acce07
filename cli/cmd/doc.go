// Package cmd implements the molang subcommands: eval, call, fmt, repl,
// init and version.
//
// Commands read their shared state, the configured [lang.Engine], host
// entity and script search path, from a [Session] stored in the context
// with [WithSession].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the YAML configuration file written by init.
	ConfigIdentifier = "config"
)
