package cli

import (
	"context"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skiff/lang"
	"github.com/ardnew/skiff/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads config files
// written as skiff scripts. The loader runs the script through a private
// interpreter and projects its top-level bindings onto flag values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.sk")
//
// Skiff identifiers are alphabetic, so flag names map onto binding names
// with their hyphens removed:
//
//	let loglevel = "debug";
//	let logformat = "json";
//	let logpretty = true;
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--log-pretty=true
//
// The script runs under the full language, so values may be computed:
//
//	let verbose = true;
//	let loglevel = "info";
//	if verbose { loglevel = "debug"; };
//
// Command-line flags override config file values. Builtins that print or
// read are directed at discard/empty streams so a config script cannot
// interfere with the command's own stdio.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		it := lang.New(
			lang.WithStdout(io.Discard),
			lang.WithStdin(strings.NewReader("")),
			lang.WithLogger(log.Default()),
		)

		if _, err := it.RunReader(ctx, r); err != nil {
			return nil, err
		}

		cfg := make(config)

		for name, val := range it.Globals() {
			// A null binding carries no usable flag value.
			if val.IsNull() {
				continue
			}

			// Kong parses all resolved values from strings.
			cfg[name] = val.String()
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for skiff-script configs.
type config map[string]string

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// The script already ran to completion; any binding is acceptable here
	// since unknown names simply never resolve a flag.
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but skiff identifiers are
	// strictly alphabetic. Try the exact name, then the hyphen-stripped form.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults.
	return nil, nil
}
