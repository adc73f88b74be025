package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/skiff/lang"
)

// Fmt parses a script and re-renders it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical skiff syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	Tokens Tokens `cmd:""                    help:"Dump the token stream, one token per line."`
}

// readSource reads the entire script named by path, or stdin for "-".
func readSource(path string) ([]byte, error) {
	srcs := sources([]string{path})
	if srcs == nil {
		return nil, ErrOpenSource.With(slog.String("path", path))
	}

	source, err := io.ReadAll(srcs)
	if err != nil {
		return nil, ErrOpenSource.Wrap(err)
	}

	return source, nil
}

// Native re-renders a script in canonical syntax: one statement per
// line, if bodies indented, and parentheses only where precedence
// requires them.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := readSource(f.Source)
	if err != nil {
		return err
	}

	prog, err := lang.Parse(ctx, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, lang.Detail(err, source))

		return lang.WrapError(err).
			With(slog.String("format", "native"))
	}

	return prog.Format(ctx, os.Stdout, f.Indent)
}

// JSON renders a script's syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := readSource(j.Source)
	if err != nil {
		return err
	}

	prog, err := lang.Parse(ctx, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, lang.Detail(err, source))

		return lang.WrapError(err).
			With(slog.String("format", "json"))
	}

	return prog.FormatJSON(ctx, os.Stdout, j.Indent)
}

// YAML renders a script's syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := readSource(y.Source)
	if err != nil {
		return err
	}

	prog, err := lang.Parse(ctx, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, lang.Detail(err, source))

		return lang.WrapError(err).
			With(slog.String("format", "yaml"))
	}

	return prog.FormatYAML(ctx, os.Stdout, y.Indent)
}

// Tokens dumps a script's token stream as "line:col<TAB>token" lines,
// including the trailing EOF token. Positions match those reported in
// parse and evaluation errors.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := readSource(t.Source)
	if err != nil {
		return err
	}

	toks, err := lang.Tokenize(ctx, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, lang.Detail(err, source))

		return lang.WrapError(err).
			With(slog.String("format", "tokens"))
	}

	return lang.FormatTokens(os.Stdout, toks)
}
