package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax    = NewError("syntax error")
	ErrGenerate  = NewError("generator error")
	ErrReadInput = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so that a
// wrapped or attributed copy of a sentinel still matches it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Phase identifies which stage of compilation rejected the input.
type Phase int

const (
	PhaseSyntax   Phase = iota // syntax
	PhaseGenerate              // generate
)

func (p Phase) String() string {
	switch p {
	case PhaseSyntax:
		return "syntax"
	case PhaseGenerate:
		return "generate"
	default:
		return "Phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// sentinel returns the package error matched by diagnostics of phase p.
func (p Phase) sentinel() *Error {
	if p == PhaseGenerate {
		return ErrGenerate
	}

	return ErrSyntax
}

// Diagnostic is a compilation error anchored to a source position.
//
// Diagnostics of [PhaseSyntax] match [ErrSyntax] and those of
// [PhaseGenerate] match [ErrGenerate] with [errors.Is].
type Diagnostic struct {
	Message string
	Source  string
	Pos     Position
	Phase   Phase
}

// Syntaxf returns a syntax diagnostic at pos.
func Syntaxf(pos Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Phase:   PhaseSyntax,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// Generatef returns a generator diagnostic at pos.
func Generatef(pos Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Phase:   PhaseGenerate,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithSource returns a copy of d that carries the source text it refers to.
func (d *Diagnostic) WithSource(src string) *Diagnostic {
	c := *d
	c.Source = src

	return &c
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var buf strings.Builder

	buf.WriteString(d.Phase.sentinel().msg)

	if d.Pos.Line > 0 {
		buf.WriteString(" at line ")
		buf.WriteString(strconv.Itoa(d.Pos.Line))
		buf.WriteString(", column ")
		buf.WriteString(strconv.Itoa(d.Pos.Column))
	}

	buf.WriteString(": ")
	buf.WriteString(d.Message)

	return buf.String()
}

// Unwrap returns the sentinel error of the diagnostic's phase.
func (d *Diagnostic) Unwrap() error { return d.Phase.sentinel() }

// LogValue implements slog.LogValuer.
func (d *Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", d.Message),
		slog.String("phase", d.Phase.String()),
		slog.Int("line", d.Pos.Line),
		slog.Int("column", d.Pos.Column),
	)
}

// Snippet renders the source line containing the diagnostic with a caret
// under the offending column:
//
//	  1 | input => => double
//	               ^
//
// It returns the empty string if the diagnostic has no source.
func (d *Diagnostic) Snippet() string {
	if d.Source == "" || d.Pos.Line < 1 {
		return ""
	}

	lines := strings.Split(d.Source, "\n")
	if d.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(d.Pos.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(strings.TrimRight(lines[d.Pos.Line-1], "\r"))
	src.WriteRune('\n')

	// 2 leading spaces + " | "
	padding := strings.Repeat(" ", len(num)+5)
	if d.Pos.Column > 0 {
		padding += strings.Repeat(" ", d.Pos.Column-1)
	}

	src.WriteString(padding)
	src.WriteString("^\n")

	return src.String()
}
