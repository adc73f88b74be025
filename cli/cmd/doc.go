// Package cmd implements the skiff subcommands: run, eval, fmt, repl,
// and init.
//
// Each command is a plain struct bound by kong, with a Run method that
// receives the [context.Context] threaded through [WithContext]. Commands
// that read scripts accept positional paths and treat "-" as stdin;
// duplicate paths (including the same file reached through a symlink)
// collapse to a single read.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration script evaluated at startup.
	ConfigIdentifier = "config"
)
