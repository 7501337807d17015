package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/ardnew/spipe/lang"
)

// report writes err for the source called name the way a compiler would:
// the message on one line, then the offending source line with a caret when
// err is a [lang.Diagnostic].
func report(w io.Writer, name string, err error) {
	var diag *lang.Diagnostic
	if !errors.As(err, &diag) {
		fmt.Fprintf(w, "%s: %v\n", name, err)

		return
	}

	if diag.Pos.Line > 0 {
		fmt.Fprintf(w, "%s:%s: %s error: %s\n", name, diag.Pos, diag.Phase, diag.Message)
	} else {
		fmt.Fprintf(w, "%s: %s error: %s\n", name, diag.Phase, diag.Message)
	}

	fmt.Fprint(w, diag.Snippet())
}

// exprName is the source name reported for the i'th -e expression.
func exprName(i int) string { return fmt.Sprintf("expr:%d", i+1) }
