package cmd

import (
	"context"

	"github.com/ardnew/skiff/cli/cmd/repl"
	"github.com/ardnew/skiff/log"
	"github.com/ardnew/skiff/pkg"
)

// Repl starts an interactive session with a persistent interpreter.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return repl.Run(ctx, pkg.CacheDir(), log.Default())
}
