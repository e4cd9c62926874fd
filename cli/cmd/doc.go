// Package cmd implements the diagmask subcommands: parse, describe, check,
// repl, init, and version.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by the init command.
	ConfigIdentifier = "config"
)
