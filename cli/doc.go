// Package cli contains the command line interface for skiff.
//
// # Usage
//
// The root command dispatches to subcommands for executing, evaluating,
// formatting, and exploring skiff scripts:
//
//	skiff run script.sk          # execute a script (default command)
//	skiff eval '2 ^ 10;'         # evaluate an expression and print it
//	skiff fmt native script.sk   # re-render canonical source
//	skiff repl                   # interactive session
//	skiff init                   # write the default config file
//
// Logging and profiling flags apply to every subcommand:
//
//	skiff --log-level=debug --pprof-mode=cpu run script.sk
//
// # Configuration
//
// Configuration is dogfooded: the config file is itself a skiff script of
// top-level let statements, run through the interpreter at startup. Its
// bindings resolve flag values by name, with flag hyphens removed (skiff
// identifiers are strictly alphabetic):
//
//	let loglevel = "debug";
//	let logformat = "text";
//	let logpretty = false;
//
// The file lives at the platform config directory (for example
// ~/.config/skiff/config.sk), and command-line flags always override it. A
// sibling config.json is also honored through Kong's JSON loader.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp layout (RFC3339, Kitchen, a custom layout, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorized, human-oriented rendering
//
// # Profiling Options
//
// Profiling flags are visible in every build but only take effect when the
// binary is built with the pprof tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/skiff/pprof)
//   - --pprof-quiet: Suppress profiler messages
//
// # Examples
//
//	# Run a script with debug logging
//	skiff --log-level=debug run build.sk
//
//	# Re-run on every change
//	skiff run --watch build.sk
//
//	# Pipe a script through stdin
//	echo 'print("hi");' | skiff run -
//
//	# Dump the syntax tree as YAML
//	skiff fmt yaml script.sk
package cli
