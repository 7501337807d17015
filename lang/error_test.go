package lang

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestDiagnostic(t *testing.T) {
	_, err := ParseExpr("input +\n  => x")
	if err == nil {
		t.Fatal("expected error")
	}

	var diag *Diagnostic
	if !errors.As(err, &diag) {
		t.Fatalf("expected *Diagnostic, got %T", err)
	}

	if !errors.Is(err, ErrSyntax) || errors.Is(err, ErrGenerate) {
		t.Errorf("diagnostic should match ErrSyntax only: %v", err)
	}

	want := "syntax error at line 2, column 3: expected expression, found `=>`"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wantSnippet := "  2 |   => x\n" +
		"        ^\n"
	if got := diag.Snippet(); got != wantSnippet {
		t.Errorf("Snippet() =\n%q\nwant:\n%q", got, wantSnippet)
	}
}

func TestDiagnostic_Generate(t *testing.T) {
	d := Generatef(Position{Offset: 4, Line: 1, Column: 5}, "expected ident, found %s", "`a::b`")

	if !errors.Is(d, ErrGenerate) || errors.Is(d, ErrSyntax) {
		t.Errorf("diagnostic should match ErrGenerate only: %v", d)
	}

	if d.Snippet() != "" {
		t.Errorf("diagnostic without source should have no snippet")
	}

	want := "generator error at line 1, column 5: expected ident, found `a::b`"
	if got := d.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_WrapWith(t *testing.T) {
	err := ErrReadInput.Wrap(io.ErrUnexpectedEOF).With(slog.String("file", "a.pipe"))

	if !errors.Is(err, ErrReadInput) {
		t.Error("wrapped error should match its sentinel")
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("wrapped error should match its cause")
	}

	if errors.Is(err, ErrSyntax) {
		t.Error("wrapped error should not match an unrelated sentinel")
	}

	if got, want := err.Error(), "failed to read input: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Error("read failed", slog.Any("error", err))

	out := buf.String()
	for _, s := range []string{
		`error.error="failed to read input"`,
		`error.cause="unexpected EOF"`,
		`error.file=a.pipe`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("log output missing %s: %s", s, out)
		}
	}
}

func TestWrapError(t *testing.T) {
	base := NewError("base")
	if got := WrapError(base); got != base {
		t.Error("WrapError should return an existing *Error unchanged")
	}

	plain := errors.New("plain")
	if got := WrapError(plain); !errors.Is(got, plain) {
		t.Error("WrapError should wrap a plain error")
	}
}
