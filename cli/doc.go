// Package cli contains the command line interface for spipe.
//
// # Usage
//
// Pipelines are given with -e or read from source files. With neither, a
// pipeline is read from stdin:
//
//	spipe -e 'input => parse =>? validate =>@ normalize'
//	spipe fmt --yaml pipeline.pipe
//	spipe lint --rules team.yaml ./pipelines/*.pipe
//	spipe repl
//
// # Configuration
//
// Flag values are also read from config.yaml and config.json in the
// configuration directory (see [pkg.ConfigDir]). The YAML loader ([resolve])
// maps flag names to values:
//
//	log-level: info
//	name-and-then: then
//	max-depth: 64
//
// The init command writes the current flag values to config.yaml. Values on
// the command line take precedence.
//
// # Search Path
//
// Relative source and rule file names that do not exist in the working
// directory are searched for in each --path directory, then in each entry of
// the SPIPE_PATH environment variable (named for the executable, see
// [pkg.Prefix]).
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Style log output written to a terminal
//
// # Generated Names
//
// The --name-* flags replace the identifiers written into expansions, such as
// the combinator of =>& steps (--name-and-then) or the prefix of
// temporaries bound by =># steps (--name-temp).
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/spipe/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	spipe --log-level=debug --pprof-mode=cpu -e 'x => f'
//
//	# Generated code for a different combinator name
//	spipe --name-and-then=then -e 'x =>& f'
package cli
