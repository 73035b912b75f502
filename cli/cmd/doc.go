// Package cmd implements the aspl subcommands: run executes scripts, fmt
// rewrites or dumps their syntax, and init writes a configuration script.
//
// Commands read their interpreter options and I/O streams from the context
// (see [WithOptions] and [WithStreams]) so they can be driven in-process.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the configuration script.
	ConfigIdentifier = "config"
)
