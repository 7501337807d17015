package pipe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type lintResult struct {
	Rule     string
	Step     int
	Severity string
}

func summarize(findings []Finding) []lintResult {
	var out []lintResult
	for _, f := range findings {
		out = append(out, lintResult{f.Rule, f.Step, f.Severity.String()})
	}

	return out
}

func TestLint_DefaultRules(t *testing.T) {
	tests := []struct {
		input string
		want  []lintResult
	}{
		{
			input: "x => f =>& g",
		},
		{
			input: "x =>* f => ... =>+ ... =># ...",
			want: []lintResult{
				{"unwrap-may-panic", 1, "warning"},
				{"redundant-noop", 2, "info"},
				{"unused-clone", 3, "warning"},
				{"discarded-apply", 4, "info"},
			},
		},
		{
			input: "x =>$ ... =>* ...",
			want: []lintResult{
				{"discarded-apply", 1, "info"},
				{"unwrap-may-panic", 2, "warning"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pl, err := Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			findings, err := Lint(context.Background(), pl)
			if err != nil {
				t.Fatalf("Lint error: %v", err)
			}

			if diff := cmp.Diff(tt.want, summarize(findings)); diff != "" {
				t.Errorf("findings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLint_FindingPosition(t *testing.T) {
	pl, err := Parse(context.Background(), "x\n=>* f")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	findings, err := Lint(context.Background(), pl)
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}

	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}

	if got := findings[0].Pos.String(); got != "2:3" {
		t.Errorf("finding position = %s, want 2:3", got)
	}

	if got := findings[0].Source; got != "f" {
		t.Errorf("finding source = %q, want f", got)
	}
}

func TestLoadRules(t *testing.T) {
	const rules = `
- name: placeholder-call
  when: op == "call" && placeholder
  message: value passed in place of ()
  severity: error
- name: trailing-method
  when: last && op == "method" && target == "unwrap"
  message: prefer =>* over .unwrap
  severity: info
- name: after-try
  when: prev == "try" && index > 0
  message: step after try
`

	loaded, err := LoadRules(context.Background(), strings.NewReader(rules))
	if err != nil {
		t.Fatalf("LoadRules error: %v", err)
	}

	if len(loaded) != 3 {
		t.Fatalf("loaded %d rules, want 3", len(loaded))
	}

	if loaded[2].Severity != SeverityInfo {
		t.Errorf("missing severity decoded as %v, want info", loaded[2].Severity)
	}

	pl, err := Parse(context.Background(), "x => f(1, ()) =>? g => .unwrap")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	findings, err := Lint(context.Background(), pl, loaded...)
	if err != nil {
		t.Fatalf("Lint error: %v", err)
	}

	want := []lintResult{
		{"placeholder-call", 1, "error"},
		{"trailing-method", 3, "info"},
		{"after-try", 3, "info"},
	}

	if diff := cmp.Diff(want, summarize(findings)); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRules_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad expression", "- name: broken\n  when: kind ==\n", ErrRuleCompile},
		{"not boolean", "- name: count\n  when: index + 1\n", ErrRuleCompile},
		{"unknown field", "- name: field\n  when: flavor == \"x\"\n", ErrRuleCompile},
		{"not a list", "name: [unclosed\n", ErrRuleDecode},
		{"unknown severity", "- name: typo\n  when: last\n  severity: fatal\n", ErrRuleDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(context.Background(), strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRules_Empty(t *testing.T) {
	rules, err := LoadRules(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadRules error: %v", err)
	}

	if len(rules) != 0 {
		t.Errorf("loaded %d rules from empty input", len(rules))
	}
}

func TestSeverity_Text(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityWarning, SeverityError} {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText error: %v", err)
		}

		var got Severity
		if err := got.UnmarshalText(text); err != nil || got != s {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, got, err)
		}
	}

	tests := []struct {
		text    string
		want    Severity
		wantErr bool
	}{
		{"", SeverityInfo, false},
		{" Error ", SeverityError, false},
		{"WARNING", SeverityWarning, false},
		{"fatal", SeverityError, true},
		{"warn", SeverityError, true},
	}

	for _, tt := range tests {
		got := SeverityError

		err := got.UnmarshalText([]byte(tt.text))
		if tt.wantErr {
			if !errors.Is(err, ErrSeverity) {
				t.Errorf("UnmarshalText(%q) error = %v, want %v", tt.text, err, ErrSeverity)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, %v, want %v", tt.text, got, err, tt.want)
		}
	}
}

func TestLoadRules_EmptySeverity(t *testing.T) {
	const rules = `
- name: quoted
  when: last
  severity: ""
`

	loaded, err := LoadRules(context.Background(), strings.NewReader(rules))
	if err != nil {
		t.Fatalf("LoadRules error: %v", err)
	}

	if len(loaded) != 1 || loaded[0].Severity != SeverityInfo {
		t.Errorf("loaded = %+v, want one info rule", loaded)
	}
}

func TestLint_RulesUnmodified(t *testing.T) {
	pl, err := Parse(context.Background(), "x =>* f =>+ ...")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	rules := DefaultRules()

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			findings, err := Lint(context.Background(), pl, rules...)
			if err != nil {
				t.Errorf("Lint error: %v", err)

				return
			}

			if len(findings) != 2 {
				t.Errorf("got %d findings, want 2", len(findings))
			}
		})
	}

	wg.Wait()

	for _, r := range rules {
		if r.program != nil {
			t.Errorf("rule %s compiled in the caller's slice", r.Name)
		}
	}
}

func TestRule_MatchUncompiled(t *testing.T) {
	r := Rule{Name: "raw", When: "last"}

	_, err := r.Match(StepFacts{Last: true})
	if !errors.Is(err, ErrRuleEvaluate) {
		t.Errorf("error = %v, want %v", err, ErrRuleEvaluate)
	}
}
