package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/spipe/lang"
	"github.com/ardnew/spipe/pipe"
)

// Fmt parses a pipeline and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical pipeline syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format the parsed pipeline as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the parsed pipeline as YAML."`
	AST    AST    `cmd:""                    help:"Format the syntax tree of the expansion as JSON."`
}

// fmtInput is the source and layout shared by the fmt subcommands.
type fmtInput struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source string `arg:"" default:"-" help:"Pipeline source file or '-' for stdin." name:"source"`
}

// parse reads and parses the pipeline named by the input's source.
func (in *fmtInput) parse(ctx context.Context, format string) (*pipe.Pipeline, error) {
	s := streamsFrom(ctx)

	srcs, errs := openSources(ctx, []string{in.Source})
	defer srcs.Close()

	if len(errs) > 0 {
		return nil, errs[0]
	}

	for name, r := range srcs.All() {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err).
				With(slog.String("source", name))
		}

		pl, err := pipe.Parse(ctx, string(data), optionsFrom(ctx)...)
		if err != nil {
			report(s.err, name, err)

			return nil, ErrFormat.Wrap(err).
				With(slog.String("format", format))
		}

		return pl, nil
	}

	return nil, ErrOpenSource.With(slog.String("source", in.Source))
}

// Native formats input as canonical pipeline syntax.
type Native struct {
	Input fmtInput `embed:""`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	pl, err := f.Input.parse(ctx, "native")
	if err != nil {
		return err
	}

	return pl.Format(ctx, streamsFrom(ctx).out, f.Input.Indent)
}

// JSON formats the parsed pipeline as JSON.
type JSON struct {
	Input fmtInput `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	pl, err := j.Input.parse(ctx, "json")
	if err != nil {
		return err
	}

	return pl.FormatJSON(ctx, streamsFrom(ctx).out, j.Input.Indent)
}

// YAML formats the parsed pipeline as YAML.
type YAML struct {
	Input fmtInput `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	pl, err := y.Input.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return pl.FormatYAML(ctx, streamsFrom(ctx).out, y.Input.Indent)
}

// AST compiles the pipeline and prints the syntax tree of the result.
type AST struct {
	Input fmtInput `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	pl, err := a.Input.parse(ctx, "ast")
	if err != nil {
		return err
	}

	x, err := pl.Compile(ctx)
	if err != nil {
		report(streamsFrom(ctx).err, a.Input.Source, err)

		return ErrFormat.Wrap(err).With(slog.String("format", "ast"))
	}

	enc := json.NewEncoder(streamsFrom(ctx).out)
	enc.SetIndent("", strings.Repeat(" ", max(a.Input.Indent, 0)))

	return enc.Encode(lang.ToMap(x))
}
