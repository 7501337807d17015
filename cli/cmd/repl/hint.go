package repl

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/spipe/pipe"
)

// Hint styles.
var (
	hintKindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	hintFromStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintToStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// stepAt returns the kind of the step being typed at cursor: the step
// introduced by the last "=>" before the cursor.
func stepAt(input string, cursor int) (pipe.StepKind, bool) {
	cursor = min(max(cursor, 0), len(input))

	i := strings.LastIndex(input[:cursor], "=>")
	if i < 0 {
		return pipe.Basic, false
	}

	rest := input[i+2:]
	if rest == "" || strings.HasPrefix(rest, "...") {
		return pipe.Basic, true
	}

	if kind, ok := pipe.ParseStepKind(rest[:1]); ok {
		return kind, true
	}

	return pipe.Basic, true
}

// stepTemplates expands a sample step of every kind with opts, so hints show
// the names actually generated.
func stepTemplates(ctx context.Context, opts ...pipe.Option) map[pipe.StepKind]string {
	templates := make(map[pipe.StepKind]string)

	for kind := range pipe.StepKinds() {
		src := sampleStep(kind)

		out, err := pipe.Expand(ctx, src, opts...)
		if err != nil {
			continue
		}

		templates[kind] = out
	}

	return templates
}

func sampleStep(kind pipe.StepKind) string {
	return "x =>" + kind.Marker() + " f"
}

// renderStepHint describes kind with its sample pipeline and expansion.
func renderStepHint(kind pipe.StepKind, expansion string) string {
	return hintKindStyle.Render(kind.String()) + " " +
		hintFromStyle.Render(sampleStep(kind)) + hintStyle.Render("  →  ") +
		hintToStyle.Render(expansion)
}
