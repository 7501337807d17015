package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/spipe/lang"
	"github.com/ardnew/spipe/pipe"
	"github.com/ardnew/spipe/pkg"
)

// Expand prints the expansion of each pipeline.
type Expand struct {
	Expr   []string `help:"Pipeline to expand; may be repeated."                        placeholder:"PIPELINE" short:"e"`
	Indent int      `default:"0" help:"Spaces per block level (0 prints one line per pipeline)." short:"i"`
	Cached bool     `default:"true" help:"Reuse expansions of identical pipelines."              negatable:""`

	Source []string `arg:"" help:"Pipeline source file(s) or '-' for stdin. Stdin is read if no pipeline is given." name:"source" optional:""`
}

// Run executes the expand command. Each pipeline's expansion is printed on
// its own line. A pipeline that fails is reported on stderr and the rest are
// still expanded; the returned error lists every failure.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := streamsFrom(ctx)
	opts := append(optionsFrom(ctx), pipe.WithIndent(e.Indent))

	var failed pkg.Error

	emit := func(name, out string, err error) {
		if err != nil {
			report(s.err, name, err)

			failed = failed.Wrap(ErrExpandFailed.Wrap(err).
				With(slog.String("source", name)))

			return
		}

		fmt.Fprintln(s.out, out)
	}

	for i, src := range e.Expr {
		out, err := e.expand(ctx, src, opts)
		emit(exprName(i), out, err)
	}

	if len(e.Expr) == 0 || len(e.Source) > 0 {
		srcs, errs := openSources(ctx, e.Source)
		defer srcs.Close()

		for _, err := range errs {
			report(s.err, pkg.Name, err)
		}

		failed = failed.Wrap(errs...)

		for name, r := range srcs.All() {
			out, err := e.expandReader(ctx, r, opts)
			emit(name, out, err)
		}
	}

	return failed.Err()
}

func (e *Expand) expand(
	ctx context.Context,
	source string,
	opts []pipe.Option,
) (string, error) {
	if e.Cached {
		return pipe.ExpandCached(ctx, source, opts...)
	}

	return pipe.Expand(ctx, source, opts...)
}

func (e *Expand) expandReader(
	ctx context.Context,
	r io.Reader,
	opts []pipe.Option,
) (string, error) {
	if e.Cached {
		return pipe.ExpandReader(ctx, r, opts...)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err)
	}

	return pipe.Expand(ctx, string(data), opts...)
}
