package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ardnew/skiff/lang"
	"github.com/ardnew/skiff/log"
)

// Eval evaluates source text given directly as command-line arguments.
// The arguments are joined with spaces into a single script, so quoting
// is only needed where the shell would otherwise split a token.
type Eval struct {
	Exprs []string `arg:"" optional:"" name:"expr" help:"Source text to evaluate."`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source := []byte(strings.Join(e.Exprs, " "))

	// Without arguments, evaluate a script from stdin instead.
	if len(strings.TrimSpace(string(source))) == 0 {
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			return ErrOpenSource.Wrap(err)
		}
	}

	// Accept a bare trailing expression by terminating it.
	if trimmed := strings.TrimRight(string(source), " \t\r\n"); trimmed != "" &&
		!strings.HasSuffix(trimmed, ";") {
		source = append([]byte(trimmed), ';')
	}

	it := lang.New(lang.WithLogger(log.Default()))

	result, err := it.Run(ctx, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, lang.Detail(err, source))

		return err
	}

	// Declarations and other statements yield null; stay quiet for those.
	if !result.IsNull() {
		fmt.Println(result.String())
	}

	return nil
}
