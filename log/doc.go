// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Diagnostics and traces are written to standard error so they never mix
// with expanded output on standard output.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Warn("step failed", slog.Int("step", 3))
//
// The zero [Logger] discards everything, which lets libraries accept a
// Logger option without forcing callers to configure one.
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// The package-level functions ([Info], [WarnContext], ...) use a default
// logger that [Config] reconfigures in place.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-step compiler
// output. The remaining levels match [log/slog].
//
// # Output Formats
//
// [FormatText] (default) writes one line per record; [FormatJSON] writes
// objects. With [WithPretty] enabled, output is styled with lipgloss when
// the destination is a terminal and left plain otherwise.
package log
