package lang

import (
	"bufio"
	"context"
	"io"
	"iter"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/klauspost/readahead"

	"github.com/ardnew/skiff/log"
)

// Interp is a scripting interpreter: a global scope, a function
// registry, and the streams its built-in functions read and write.
//
// An Interp retains declared globals across calls to Run and Eval, so
// a host can feed it successive program fragments and inspect what
// they declared. It is not safe for concurrent use; give each
// goroutine its own interpreter.
type Interp struct {
	env     *Env
	reg     *Registry
	stdin   *bufio.Reader
	stdout  io.Writer
	rand    *rand.Rand
	logger  log.Logger
	opts    options
	started bool
}

// New creates an interpreter with the built-in function set installed.
// Without options it reads standard input, writes standard output, and
// draws random numbers from an unpredictable seed.
func New(opts ...Option) *Interp {
	o := defaults().apply(opts...)

	it := &Interp{
		env:    NewEnv(),
		reg:    NewRegistry(),
		stdin:  bufio.NewReader(o.stdin),
		stdout: o.stdout,
		rand:   newRand(o),
		logger: o.logger,
		opts:   o,
	}

	installBuiltins(it)

	return it
}

func newRand(o options) *rand.Rand {
	if o.seeded {
		return rand.New(rand.NewPCG(o.seed, o.seed))
	}

	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Register adds a host function to the interpreter.
// Registration must happen before the first Run or Eval; afterwards
// the function table is frozen so scripts see a stable world.
func (it *Interp) Register(name string, sig Signature, impl NativeFunc) error {
	if it.started {
		return NewError("function registration after evaluation started")
	}

	return it.reg.Register(name, sig, impl)
}

// Run parses source and evaluates it against the interpreter's global
// scope, returning the value of the final statement, or null for an
// empty program. Parsing honors the interpreter's nesting limit and
// cache policy. Log records emitted during the call share a unique
// run id.
func (it *Interp) Run(ctx context.Context, source []byte) (Value, error) {
	logger := it.logger.With(slog.String("run", uuid.NewString()))

	logger.TraceContext(ctx, "run start", slog.Int("bytes", len(source)))

	popts := []Option{
		WithMaxDepth(it.opts.maxDepth),
		WithLogger(logger),
	}
	if it.opts.noCache {
		popts = append(popts, WithoutCache())
	}

	prog, err := Parse(ctx, source, popts...)
	if err != nil {
		return Null(), err
	}

	return it.eval(ctx, prog, logger)
}

// RunReader reads all of r through buffered read-ahead and runs it.
func (it *Interp) RunReader(ctx context.Context, r io.Reader) (Value, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	source, err := io.ReadAll(ra)
	if err != nil {
		return Null(), WrapError(err)
	}

	return it.Run(ctx, source)
}

// Eval evaluates an already-parsed program against the interpreter's
// global scope. The program may come from Parse or from another
// interpreter; evaluation never modifies it.
func (it *Interp) Eval(ctx context.Context, prog *Program) (Value, error) {
	return it.eval(ctx, prog, it.logger)
}

func (it *Interp) eval(ctx context.Context, prog *Program, logger log.Logger) (Value, error) {
	it.started = true

	ec := &evalContext{env: it.env, reg: it.reg, logger: logger}

	result := Null()

	for _, stmt := range prog.Stmts {
		// Cancellation is observed between top-level statements, never
		// inside one.
		if err := ctx.Err(); err != nil {
			return Null(), WrapError(err)
		}

		val, err := ec.evalNode(ctx, stmt)
		if err != nil {
			logger.DebugContext(ctx, "evaluation failed", slog.Any("error", err))

			return Null(), err
		}

		result = val
	}

	logger.TraceContext(ctx, "run complete",
		slog.Int("statements", len(prog.Stmts)),
		slog.String("result", result.Kind().String()),
	)

	return result, nil
}

// Globals returns an iterator over the interpreter's global bindings
// in sorted name order.
func (it *Interp) Globals() iter.Seq2[string, Value] {
	return it.env.Bindings()
}

// Global returns the global binding for name and whether it exists.
func (it *Interp) Global(name string) (Value, bool) {
	val, err := it.env.Resolve(name)

	return val, err == nil
}

// Registry exposes the interpreter's function table for listing names
// and looking up signatures.
func (it *Interp) Registry() *Registry {
	return it.reg
}
