package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/spipe/lang"
	"github.com/ardnew/spipe/pipe"
	"github.com/ardnew/spipe/pkg"
)

// Lint reports questionable steps in each pipeline.
type Lint struct {
	Rules  string   `help:"YAML file of lint rules used instead of the built-in rules." placeholder:"FILE" short:"r"`
	Expr   []string `help:"Pipeline to lint; may be repeated."                          placeholder:"PIPELINE" short:"e"`
	Format string   `default:"text" enum:"text,json,yaml" help:"Output format of findings."`

	Source []string `arg:"" help:"Pipeline source file(s) or '-' for stdin. Stdin is read if no pipeline is given." name:"source" optional:""`
}

// lintReport holds the findings for one linted source.
type lintReport struct {
	Source   string         `json:"source"   yaml:"source"`
	Findings []pipe.Finding `json:"findings" yaml:"findings"`
}

// Run executes the lint command. It fails if any pipeline cannot be parsed
// or any finding has error severity.
func (l *Lint) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	rules, err := l.loadRules(ctx)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)

	var (
		failed  pkg.Error
		reports []lintReport
	)

	lint := func(name, source string) {
		pl, err := pipe.Parse(ctx, source, optionsFrom(ctx)...)
		if err != nil {
			report(s.err, name, err)

			failed = failed.Wrap(ErrLintParse.Wrap(err).With(slog.String("source", name)))

			return
		}

		findings, err := pipe.Lint(ctx, pl, rules...)
		if err != nil {
			failed = failed.Wrap(err)

			return
		}

		reports = append(reports, lintReport{Source: name, Findings: findings})
	}

	for i, src := range l.Expr {
		lint(exprName(i), src)
	}

	if len(l.Expr) == 0 || len(l.Source) > 0 {
		srcs, errs := openSources(ctx, l.Source)
		defer srcs.Close()

		for _, err := range errs {
			report(s.err, pkg.Name, err)
		}

		failed = failed.Wrap(errs...)

		for name, r := range srcs.All() {
			data, err := io.ReadAll(r)
			if err != nil {
				failed = failed.Wrap(lang.ErrReadInput.Wrap(err).
					With(slog.String("source", name)))

				continue
			}

			lint(name, string(data))
		}
	}

	if err := l.write(ctx, s.out, reports); err != nil {
		return err
	}

	for _, r := range reports {
		for _, f := range r.Findings {
			if f.Severity >= pipe.SeverityError {
				failed = failed.Wrap(ErrLintFailed.With(
					slog.String("source", r.Source),
					slog.String("rule", f.Rule),
					slog.Int("step", f.Step)))
			}
		}
	}

	return failed.Err()
}

// loadRules reads the rules file, or returns nil to select the built-in
// rules.
func (l *Lint) loadRules(ctx context.Context) ([]pipe.Rule, error) {
	if l.Rules == "" {
		return nil, nil
	}

	path := lookup(ctx, l.Rules)

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLoadRules.Wrap(err).With(slog.String("file", path))
	}
	defer f.Close()

	rules, err := pipe.LoadRules(ctx, f)
	if err != nil {
		return nil, ErrLoadRules.Wrap(err).With(slog.String("file", path))
	}

	if len(rules) == 0 {
		return nil, ErrLoadRules.With(
			slog.String("file", path),
			slog.String("reason", "no rules"))
	}

	return rules, nil
}

// write prints the reports in the selected format.
func (l *Lint) write(ctx context.Context, w io.Writer, reports []lintReport) error {
	switch l.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(reports)

	case "yaml":
		return yaml.NewEncoder(w).EncodeContext(ctx, reports)

	default:
		for _, r := range reports {
			for _, f := range r.Findings {
				_, err := fmt.Fprintf(w, "%s:%s: %s: %s [%s]\n",
					r.Source, f.Pos, f.Severity, f.Message, f.Rule)
				if err != nil {
					return err
				}
			}
		}

		return nil
	}
}
