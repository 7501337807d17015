package pipe

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/spipe/lang"
	"github.com/ardnew/spipe/log"
)

// Option configures parsing and compilation.
type Option func(*options)

type options struct {
	logger   log.Logger
	names    Names
	maxDepth int
	indent   int
}

func makeOptions(opts ...Option) options {
	o := options{
		names:    DefaultNames(),
		maxDepth: lang.DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger for trace output. The zero [log.Logger]
// discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithNames overrides the identifiers written into generated code. Empty
// fields keep their defaults.
func WithNames(names Names) Option {
	return func(o *options) { o.names = names.Merge(DefaultNames()) }
}

// WithMaxDepth bounds the nesting depth of host expressions.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithIndent sets the number of spaces per nesting level used by [Expand]
// when rendering blocks. Zero renders everything on one line.
func WithIndent(indent int) Option {
	return func(o *options) { o.indent = max(indent, 0) }
}

// Compile folds the pipeline's steps left to right, starting from the
// initial expression. The first failing step stops the fold.
func (pl *Pipeline) Compile(ctx context.Context) (lang.Expr, error) {
	gen := NewGenerator(pl.opts.names)
	logger := pl.opts.logger

	var hygiene Counter

	acc := pl.Initial

	for i, step := range pl.Steps {
		next, err := gen.Transform(step.Kind, step.Op, acc, &hygiene)
		if err != nil {
			var diag *lang.Diagnostic
			if errors.As(err, &diag) {
				err = diag.WithSource(pl.Source)
			}

			logger.DebugContext(ctx, "step failed",
				slog.Int("step", i+1),
				slog.String("kind", step.Kind.String()),
				slog.Any("error", err))

			return nil, err
		}

		logger.TraceContext(ctx, "step",
			slog.Int("step", i+1),
			slog.String("kind", step.Kind.String()),
			slog.String("op", OperationName(step.Op)))

		acc = next
	}

	logger.TraceContext(ctx, "compile complete",
		slog.Int("step_count", len(pl.Steps)),
		slog.Uint64("temporaries", hygiene.Count()))

	return acc, nil
}

// Compile parses and compiles source.
func Compile(ctx context.Context, source string, opts ...Option) (lang.Expr, error) {
	pl, err := Parse(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	return pl.Compile(ctx)
}

// Expand parses and compiles source and renders the result as host source.
func Expand(ctx context.Context, source string, opts ...Option) (string, error) {
	pl, err := Parse(ctx, source, opts...)
	if err != nil {
		return "", err
	}

	x, err := pl.Compile(ctx)
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	err = lang.Format(&buf, x, pl.opts.indent)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
