package pipe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPipeline_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", "x"},
		{"x=>f", "x => f"},
		{"x =>&f(a,())", "x =>& f(a, ())"},
		{
			`input => parse_number =>& Ok =>@ double =>? (as f64) =># |s| println!("{}", s)`,
			`input => parse_number =>& Ok =>@ double =>? (as f64) =># |s| println!("{}", s)`,
		},
		{"v =>$ .push_str(\"!\") =>+ (Vec < u8 >) =>* (u8 ?) => ...", "v =>$ .push_str(\"!\") =>+ (Vec<u8>) =>* (u8?) => ..."},
		{"v => .collect::<Vec<_>>", "v => .collect::<Vec<_>>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pl, err := Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := pl.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}

			again, err := Parse(context.Background(), pl.String())
			if err != nil {
				t.Fatalf("canonical form does not parse: %v", err)
			}

			if again.String() != pl.String() {
				t.Errorf("canonical form is not stable: %q", again.String())
			}
		})
	}
}

func TestPipeline_FormatIndent(t *testing.T) {
	pl, err := Parse(context.Background(), "x =>& f => g")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer

	err = pl.Format(context.Background(), &buf, 2)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if got, want := buf.String(), "x\n  =>& f\n  => g\n"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestPipeline_ToMap(t *testing.T) {
	pl, err := Parse(context.Background(), "x =>& f => (as u8)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := map[string]any{
		"initial": map[string]any{
			"kind":     "path",
			"source":   "x",
			"segments": []any{map[string]any{"name": "x"}},
		},
		"steps": []any{
			map[string]any{
				"kind":      "and_then",
				"operation": "call",
				"source":    "f",
				"line":      1,
				"column":    5,
				"marker":    "&",
				"target":    "f",
			},
			map[string]any{
				"kind":      "basic",
				"operation": "as",
				"source":    "(as u8)",
				"line":      1,
				"column":    12,
				"type":      "u8",
			},
		},
	}

	if diff := cmp.Diff(want, pl.ToMap()); diff != "" {
		t.Errorf("ToMap mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_FormatJSON(t *testing.T) {
	pl, err := Parse(context.Background(), "x =>? f(1, ())")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer

	err = pl.FormatJSON(context.Background(), &buf, 0)
	if err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	var decoded struct {
		Steps []struct {
			Kind        string   `json:"kind"`
			Args        []string `json:"args"`
			Placeholder bool     `json:"placeholder"`
		} `json:"steps"`
	}

	err = json.Unmarshal(buf.Bytes(), &decoded)
	if err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if len(decoded.Steps) != 1 {
		t.Fatalf("decoded %d steps, want 1", len(decoded.Steps))
	}

	step := decoded.Steps[0]
	if step.Kind != "try" || !step.Placeholder || !cmp.Equal(step.Args, []string{"1", "()"}) {
		t.Errorf("unexpected step %+v", step)
	}

	data, err := json.Marshal(pl)
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}

	if strings.TrimSpace(buf.String()) != string(data) {
		t.Errorf("MarshalJSON and FormatJSON disagree:\n%s\n%s", data, buf.String())
	}
}

func TestPipeline_FormatYAML(t *testing.T) {
	pl, err := Parse(context.Background(), "x =>& f")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer

		err = pl.FormatYAML(context.Background(), &buf, indent)
		if err != nil {
			t.Fatalf("FormatYAML error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"kind: and_then", "target: f", "&"} {
			if !strings.Contains(out, want) {
				t.Errorf("indent %d output missing %q:\n%s", indent, want, out)
			}
		}
	}
}
