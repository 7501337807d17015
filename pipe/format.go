package pipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/spipe/lang"
)

// String renders the pipeline in canonical pipeline syntax.
func (pl *Pipeline) String() string {
	var buf strings.Builder

	_ = pl.Format(context.Background(), &buf, 0)

	return strings.TrimSuffix(buf.String(), "\n")
}

// Format writes the pipeline in canonical pipeline syntax. If indent is
// greater than zero each step starts on its own line, indented by indent
// spaces.
func (pl *Pipeline) Format(_ context.Context, w io.Writer, indent int) error {
	if _, err := fmt.Fprint(w, lang.String(pl.Initial)); err != nil {
		return err
	}

	sep := " "
	if indent > 0 {
		sep = "\n" + strings.Repeat(" ", indent)
	}

	for _, step := range pl.Steps {
		_, err := fmt.Fprint(w, sep, "=>", step.Kind.Marker(), " ", step.Op.String())
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)

	return err
}

// FormatJSON writes the structured form of the pipeline as JSON.
func (pl *Pipeline) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(pl.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(pl.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the structured form of the pipeline as YAML.
func (pl *Pipeline) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, pl.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// MarshalJSON implements json.Marshaler.
func (pl *Pipeline) MarshalJSON() ([]byte, error) {
	return json.Marshal(pl.ToMap())
}

// ToMap converts the pipeline into nested maps for encoding.
func (pl *Pipeline) ToMap() map[string]any {
	steps := make([]any, len(pl.Steps))
	for i, step := range pl.Steps {
		steps[i] = step.ToMap()
	}

	return map[string]any{
		"initial": lang.ToMap(pl.Initial),
		"steps":   steps,
	}
}

// ToMap converts the step into nested maps for encoding.
func (s Step) ToMap() map[string]any {
	m := map[string]any{
		"kind":      s.Kind.String(),
		"operation": OperationName(s.Op),
		"source":    s.Op.String(),
		"line":      s.Pos.Line,
		"column":    s.Pos.Column,
	}

	if marker := s.Kind.Marker(); marker != "" {
		m["marker"] = marker
	}

	switch op := s.Op.(type) {
	case Call:
		m["target"] = lang.String(op.Target)
		if op.Args != nil {
			m["args"] = exprStrings(op.Args)
			m["placeholder"] = HasPlaceholder(op.Args)
		}

	case MethodCall:
		m["target"] = lang.String(op.Method)
		if op.Args != nil {
			m["args"] = exprStrings(op.Args)
		}

	case Closure:
		m["closure"] = lang.ToMap(op.Fn)

	case ConvertFrom:
		m["type"] = lang.TypeString(op.Type)

	case ConvertTryFrom:
		m["type"] = lang.TypeString(op.Type)

	case ConvertAs:
		m["type"] = lang.TypeString(op.Type)
	}

	return m
}

func exprStrings(list []lang.Expr) []any {
	out := make([]any, len(list))
	for i, x := range list {
		out[i] = lang.String(x)
	}

	return out
}
