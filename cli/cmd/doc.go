// Package cmd implements the spipe subcommands.
//
// Commands are kong command structs whose Run methods take a
// [context.Context]. The CLI stores shared state in that context before
// running a command: the [kong.Context] ([WithContext]), the pipe options
// selected by global flags ([WithOptions]), the source search path
// ([WithSearchPath]) and, in tests, replacement standard streams
// ([WithStreams]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the YAML configuration file.
	ConfigIdentifier = "config"
)
