// Package cmd implements the raindoc subcommands. Each command reads one
// dotrain document, resolves it against the metadata store carried in its
// context and prints some view of the result.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file. It is also the top-level key of that file.
	ConfigIdentifier = "config"
)
