// Package profile provides optional runtime profiling for the spipe command.
//
// # Overview
//
// This package wraps [github.com/pkg/profile]. Profiling is disabled until a
// mode is selected, and a disabled profiler costs nothing: [Config.Start]
// returns a Stop method that does nothing.
//
// # Available Profiling Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Usage
//
//	cfg := profile.Config(func() (string, string, bool) { return "", "", false })
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath("/tmp/profiles")(cfg)
//
//	p := cfg.Start()
//	defer p.Stop()
//
// Profile files are written to the configured directory with names matching
// the profiling mode (e.g., cpu.pprof, mem.pprof).
//
// # Command-Line Usage
//
//	# Profile a large expansion
//	spipe --pprof-mode cpu expand big.pipe
//
//	# Heap profiling with custom output directory
//	spipe --pprof-mode heap --pprof-dir ./profiles expand big.pipe
//
// The default output directory is the "pprof" subdirectory of the spipe
// cache directory:
//
//	$XDG_CACHE_HOME/spipe/pprof   (Linux/Unix)
//	~/Library/Caches/spipe/pprof  (macOS)
//	%LocalAppData%\spipe\pprof    (Windows)
//
// # Analyzing Profile Data
//
//	go tool pprof ./spipe ~/.cache/spipe/pprof/cpu.pprof
//	go tool pprof -http=: ~/.cache/spipe/pprof/cpu.pprof
package profile

// Dir is the name of the default profile output directory.
const Dir = `pprof`
