package lang

import (
	"io"
	"os"

	"github.com/ardnew/skiff/log"
)

// DefaultMaxDepth is the expression nesting limit used when
// [WithMaxDepth] is not given. It bounds parser recursion through
// parenthesized groups, unary signs, and call arguments.
var DefaultMaxDepth = 256

// options collects the configurable behavior shared by parsing
// and interpretation. The zero value is never used directly;
// construct with defaults().apply(opts...).
type options struct {
	maxDepth int
	noCache  bool
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	seed     uint64
	seeded   bool
}

// Option configures parsing and interpretation behavior.
// Options that do not apply to an operation are ignored by it:
// [Parse] reads only the nesting limit, logger, and cache policy.
type Option func(options) options

func defaults() options {
	return options{
		maxDepth: DefaultMaxDepth,
		logger:   log.Default(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
}

// apply returns the result of applying each given [Option] to o.
// Nil options are skipped.
func (o options) apply(opts ...Option) options {
	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	return o
}

// optionsKey is the subset of options that changes a parse result,
// used to key the parse cache. The logger is deliberately excluded:
// it does not affect the cached program.
type optionsKey struct {
	maxDepth int
}

func (o options) key() optionsKey {
	return optionsKey{maxDepth: o.maxDepth}
}

// WithMaxDepth returns an [Option] that sets the expression nesting
// limit. Values less than 1 leave the current limit unchanged.
func WithMaxDepth(depth int) Option {
	return func(o options) options {
		if depth > 0 {
			o.maxDepth = depth
		}

		return o
	}
}

// WithLogger returns an [Option] that sets the logger used for trace
// and debug output during scanning, parsing, and evaluation.
func WithLogger(logger log.Logger) Option {
	return func(o options) options {
		o.logger = logger

		return o
	}
}

// WithoutCache returns an [Option] that disables the process-wide
// parse cache for the operation it configures.
func WithoutCache() Option {
	return func(o options) options {
		o.noCache = true

		return o
	}
}

// WithStdin returns an [Option] that sets the reader backing the
// read built-in function.
func WithStdin(r io.Reader) Option {
	return func(o options) options {
		if r != nil {
			o.stdin = r
		}

		return o
	}
}

// WithStdout returns an [Option] that sets the writer backing the
// print built-in function.
func WithStdout(w io.Writer) Option {
	return func(o options) options {
		if w != nil {
			o.stdout = w
		}

		return o
	}
}

// WithRandSeed returns an [Option] that seeds the source backing the
// random built-in function, making its sequence reproducible.
// Without it each interpreter draws from an unpredictable seed.
func WithRandSeed(seed uint64) Option {
	return func(o options) options {
		o.seed = seed
		o.seeded = true

		return o
	}
}
