// Package profile provides optional runtime profiling for the skiff
// command.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] behind conditional
// compilation. Profiling support must be enabled at build time with the
// "pprof" build tag; without it every operation is a no-op with zero
// runtime overhead, and the profiling flags remain visible but inert.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
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
// Without the pprof tag, [Modes] returns an empty list.
//
// # Usage
//
// The profiler is configured as a [Config] built from functional options and
// started with [Config.Start]:
//
//	var cfg profile.Config = func() (string, string, bool) {
//	    return "", "", false
//	}
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath("/tmp/profiles")(cfg)
//
//	ctrl := cfg.Start()
//	defer ctrl.Stop()
//
// Profile files are written to the configured directory with names matching
// the profiling mode (e.g., cpu.pprof, mem.pprof).
//
// # Command-Line Usage
//
// The skiff command exposes profiling through flags when built with the
// pprof tag:
//
//	# Enable CPU profiling (writes to the default cache directory)
//	skiff --pprof-mode cpu run script.sk
//
//	# Enable heap profiling with a custom output directory
//	skiff --pprof-mode heap --pprof-dir ./profiles run script.sk
//
// The default output directory is:
//
//	$XDG_CACHE_HOME/skiff/pprof   (Linux/Unix)
//	~/Library/Caches/skiff/pprof  (macOS)
//	%LocalAppData%\skiff\pprof    (Windows)
//
// # Analyzing Profile Data
//
// Use go tool pprof to analyze the captured data:
//
//	# Interactive analysis with symbol resolution
//	go tool pprof ./skiff /tmp/profiles/cpu.pprof
//
//	# Web UI with flame graphs
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
//	# Compare against a baseline
//	go tool pprof -base=old.pprof new.pprof
//
// # HTTP-Based Profiling (net/http/pprof)
//
// When built with the pprof tag, this package imports [net/http/pprof],
// which registers HTTP handlers for live profiling at /debug/pprof/. The
// handlers only serve if the host application starts an HTTP server:
//
//	go func() {
//	    log.Println(http.ListenAndServe("localhost:6060", nil))
//	}()
//
// # Performance Overhead
//
//   - CPU profiling: ~5% overhead
//   - Heap profiling: minimal overhead (sampled)
//   - Block/mutex profiling: significant overhead at high sample rates
//   - Trace profiling: high overhead, use for short durations only
//
// Adjust sampling rates using [runtime.SetBlockProfileRate],
// [runtime.SetMutexProfileFraction], and [runtime.MemProfileRate].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
