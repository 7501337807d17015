package pipe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/spipe/lang"
)

// Lint errors.
var (
	ErrRuleCompile  = lang.NewError("lint rule compilation failed")
	ErrRuleEvaluate = lang.NewError("lint rule evaluation failed")
	ErrRuleDecode   = lang.NewError("failed to decode lint rules")
	ErrSeverity     = lang.NewError("unknown severity")
)

// Severity ranks lint findings.
type Severity int

const (
	SeverityInfo    Severity = iota // info
	SeverityWarning                 // warning
	SeverityError                   // error
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Empty text is info.
func (s *Severity) UnmarshalText(text []byte) error {
	switch name := strings.ToLower(strings.TrimSpace(string(text))); name {
	case "", "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return ErrSeverity.With(slog.String("severity", name))
	}

	return nil
}

// StepFacts describes one step to a lint rule. Rules refer to the fields by
// their expr tags.
type StepFacts struct {
	Kind        string `expr:"kind"`
	Marker      string `expr:"marker"`
	Op          string `expr:"op"`
	Target      string `expr:"target"`
	Source      string `expr:"source"`
	Prev        string `expr:"prev"`
	PrevOp      string `expr:"prev_op"`
	Index       int    `expr:"index"`
	Args        int    `expr:"args"`
	Placeholder bool   `expr:"placeholder"`
	Last        bool   `expr:"last"`
}

// Facts returns the lint facts for every step of the pipeline.
func (pl *Pipeline) Facts() []StepFacts {
	facts := make([]StepFacts, len(pl.Steps))

	for i, step := range pl.Steps {
		f := StepFacts{
			Index:  i,
			Kind:   step.Kind.String(),
			Marker: step.Kind.Marker(),
			Op:     OperationName(step.Op),
			Source: step.Op.String(),
			Last:   i == len(pl.Steps)-1,
		}

		if i > 0 {
			f.Prev = pl.Steps[i-1].Kind.String()
			f.PrevOp = OperationName(pl.Steps[i-1].Op)
		}

		switch op := step.Op.(type) {
		case Call:
			f.Target = lang.String(op.Target)
			f.Args = len(op.Args)
			f.Placeholder = HasPlaceholder(op.Args)

		case MethodCall:
			f.Target = lang.String(op.Method)
			f.Args = len(op.Args)

		case ConvertFrom:
			f.Target = lang.TypeString(op.Type)

		case ConvertTryFrom:
			f.Target = lang.TypeString(op.Type)

		case ConvertAs:
			f.Target = lang.TypeString(op.Type)
		}

		facts[i] = f
	}

	return facts
}

// Rule is a lint check: When is an expr-lang boolean expression evaluated
// against the [StepFacts] of each step.
type Rule struct {
	program  *vm.Program
	Name     string   `json:"name"     yaml:"name"`
	When     string   `json:"when"     yaml:"when"`
	Message  string   `json:"message"  yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// Compile type-checks the rule's condition.
func (r *Rule) Compile() error {
	program, err := expr.Compile(r.When, expr.Env(StepFacts{}), expr.AsBool())
	if err != nil {
		return ErrRuleCompile.Wrap(err).
			With(slog.String("rule", r.Name), slog.String("when", r.When))
	}

	r.program = program

	return nil
}

// Match reports whether the rule fires for the given step. The rule must have
// been compiled.
func (r *Rule) Match(facts StepFacts) (bool, error) {
	if r.program == nil {
		return false, ErrRuleEvaluate.With(
			slog.String("rule", r.Name),
			slog.String("reason", "not compiled"))
	}

	out, err := expr.Run(r.program, facts)
	if err != nil {
		return false, ErrRuleEvaluate.Wrap(err).
			With(slog.String("rule", r.Name), slog.Int("step", facts.Index+1))
	}

	matched, _ := out.(bool)

	return matched, nil
}

// DefaultRules returns the built-in lint rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "unwrap-may-panic",
			When:     `kind == "unwrap"`,
			Message:  "unwrap panics on None or Err; consider =>? instead",
			Severity: SeverityWarning,
		},
		{
			Name:     "redundant-noop",
			When:     `kind == "basic" && op == "noop"`,
			Message:  "step has no effect",
			Severity: SeverityInfo,
		},
		{
			Name:     "unused-clone",
			When:     `kind == "clone" && op == "noop"`,
			Message:  "cloned value is passed on unchanged",
			Severity: SeverityWarning,
		},
		{
			Name:     "discarded-apply",
			When:     `kind in ["apply", "apply_mut"] && op == "noop"`,
			Message:  "apply step only borrows its value",
			Severity: SeverityInfo,
		},
	}
}

// LoadRules decodes a YAML list of rules and compiles each one.
func LoadRules(ctx context.Context, r io.Reader) ([]Rule, error) {
	var rules []Rule

	err := yaml.NewDecoder(r).DecodeContext(ctx, &rules)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrRuleDecode.Wrap(err)
	}

	for i := range rules {
		err := rules[i].Compile()
		if err != nil {
			return nil, err
		}
	}

	return rules, nil
}

// Finding is one rule match.
type Finding struct {
	Rule     string        `json:"rule"     yaml:"rule"`
	Message  string        `json:"message"  yaml:"message"`
	Source   string        `json:"source"   yaml:"source"`
	Pos      lang.Position `json:"position" yaml:"position"`
	Step     int           `json:"step"     yaml:"step"`
	Severity Severity      `json:"severity" yaml:"severity"`
}

// Lint evaluates rules against every step of the pipeline. With no rules,
// [DefaultRules] are used. Findings are ordered by step, then by rule.
// The caller's rules are not modified; uncompiled rules are compiled into a
// copy.
func Lint(ctx context.Context, pl *Pipeline, rules ...Rule) ([]Finding, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	rules = slices.Clone(rules)

	for i := range rules {
		if rules[i].program != nil {
			continue
		}

		err := rules[i].Compile()
		if err != nil {
			return nil, err
		}
	}

	var findings []Finding

	for i, facts := range pl.Facts() {
		for j := range rules {
			matched, err := rules[j].Match(facts)
			if err != nil {
				return nil, err
			}

			if !matched {
				continue
			}

			pl.opts.logger.DebugContext(ctx, "lint finding",
				slog.String("rule", rules[j].Name),
				slog.Int("step", i+1))

			findings = append(findings, Finding{
				Rule:     rules[j].Name,
				Message:  rules[j].Message,
				Source:   facts.Source,
				Pos:      pl.Steps[i].Pos,
				Step:     i + 1,
				Severity: rules[j].Severity,
			})
		}
	}

	return findings, nil
}
