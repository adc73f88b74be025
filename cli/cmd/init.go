package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skiff/lang"
	"github.com/ardnew/skiff/log"
	"github.com/ardnew/skiff/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration script with current flag values.
// The result is an ordinary script of let statements, one per flag, that
// the startup resolver maps back onto the flags it was generated from.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	prog := i.buildProgram(ctx)

	err = prog.Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("bindings", prog.Len()),
	)

	return nil
}

// buildProgram constructs the config script from current flag values.
// Binding names are flag names with hyphens removed, since identifiers
// are purely alphabetic.
func (i *Init) buildProgram(ctx context.Context) *lang.Program {
	ktx := kongContextFrom(ctx)

	prog := new(lang.Program)

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		value := i.flagNode(ctx, flag)
		if value == nil {
			continue
		}

		prog.Stmts = append(prog.Stmts, &lang.LetStmt{
			Name:  strings.ReplaceAll(flag.Name, "-", ""),
			Value: value,
		})
	}

	return prog
}

// flagNode returns the literal node for a CLI flag's current value, or
// nil for values the language cannot represent.
func (i *Init) flagNode(ctx context.Context, flag *kong.Flag) lang.Node {
	ktx := kongContextFrom(ctx)

	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case bool:
		return &lang.BoolLit{Value: v}

	case string:
		if v == "" {
			return nil
		}

		return &lang.StringLit{Value: v}

	case int:
		return &lang.NumberLit{Value: float64(v)}

	case int64:
		return &lang.NumberLit{Value: float64(v)}

	case uint64:
		return &lang.NumberLit{Value: float64(v)}

	case float64:
		return &lang.NumberLit{Value: v}

	case []string, []int, []int64, []float64, []bool:
		// The language has no aggregate literals.
		return nil

	default:
		// Flags with bespoke types (log level, log format) render as
		// their string form.
		return &lang.StringLit{Value: fmt.Sprint(v)}
	}
}
