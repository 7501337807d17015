package pipe

import (
	"context"
	"log/slog"

	"github.com/ardnew/spipe/lang"
)

// Pipeline is a parsed pipeline: an initial expression followed by zero or
// more steps.
type Pipeline struct {
	Initial lang.Expr
	Source  string
	Steps   []Step
	opts    options
}

// Parse parses source as a pipeline:
//
//	pipeline := expr ( "=>" step )*
//	step     := marker? operation
//
// The whole input must be consumed; a trailing "=>" is an error.
func Parse(ctx context.Context, source string, opts ...Option) (*Pipeline, error) {
	o := makeOptions(opts...)

	p, err := lang.NewParser(source)
	if err != nil {
		return nil, err
	}

	p.SetMaxDepth(o.maxDepth)

	initial, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	pl := &Pipeline{
		Initial: initial,
		Source:  source,
		opts:    o,
	}

	for p.EatOp("=>") {
		step, err := parseStep(p)
		if err != nil {
			return nil, err
		}

		pl.Steps = append(pl.Steps, step)
	}

	if !p.EOF() {
		return nil, p.Unexpected("`=>` or end of input")
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(source)),
		slog.Int("step_count", len(pl.Steps)))

	return pl, nil
}

// parseStep parses an optional marker followed by an operation.
func parseStep(p *lang.Parser) (Step, error) {
	tok := p.Peek()
	step := Step{Kind: Basic, Pos: tok.Pos}

	if tok.Kind == lang.TokenPunct && len(tok.Text) == 1 && !p.PeekOp("...") {
		if kind, ok := markers[tok.Text[0]]; ok {
			p.Next()

			step.Kind = kind
		}
	}

	op, err := parseOperation(p)
	if err != nil {
		return Step{}, err
	}

	step.Op = op

	return step, nil
}

// parseOperation tries each operation shape in order; the first that
// matches wins.
func parseOperation(p *lang.Parser) (Operation, error) {
	tok := p.Peek()

	switch {
	case p.PeekOp("..."):
		p.EatOp("...")

		return NoOp{Pos: tok.Pos}, nil

	case p.PeekOp("."):
		p.Next()

		return parseMethodCall(p, tok.Pos)

	case tok.IsPunct('('):
		return parseConversion(p)

	case tok.Kind == lang.TokenIdent && !lang.IsKeyword(tok.Text),
		p.PeekOp("::"):
		return parseCall(p)

	case p.PeekOp("|"), p.PeekOp("||"), tok.IsKeyword("move"):
		return parseClosure(p)

	case tok.Kind == lang.TokenEOF:
		return nil, p.Errorf(tok.Pos, "expected operation after `=>`, found end of input")
	}

	return nil, p.Unexpected("operation")
}

func parseCall(p *lang.Parser) (Operation, error) {
	target, err := p.ParsePath(true)
	if err != nil {
		return nil, err
	}

	call := Call{Target: target}

	if p.Peek().IsPunct('(') {
		call.Args, err = p.ParseArgs()
		if err != nil {
			return nil, err
		}
	}

	return call, nil
}

func parseMethodCall(p *lang.Parser, pos lang.Position) (Operation, error) {
	method, err := p.ParsePath(true)
	if err != nil {
		return nil, err
	}

	call := MethodCall{Method: method, Pos: pos}

	if p.Peek().IsPunct('(') {
		call.Args, err = p.ParseArgs()
		if err != nil {
			return nil, err
		}
	}

	return call, nil
}

// parseConversion parses (as T), (T), or (T?).
func parseConversion(p *lang.Parser) (Operation, error) {
	open := p.Next()

	var op Operation

	switch tok := p.Peek(); {
	case tok.IsKeyword("as"):
		p.Next()

		typ, err := p.ParseType()
		if err != nil {
			return nil, err
		}

		op = ConvertAs{Type: typ, Pos: open.Pos}

	case tok.Kind == lang.TokenIdent && !lang.IsKeyword(tok.Text),
		p.PeekOp("::"):
		path, err := p.ParsePath(false)
		if err != nil {
			return nil, err
		}

		if p.EatOp("?") {
			op = ConvertTryFrom{Type: path, Pos: open.Pos}
		} else {
			op = ConvertFrom{Type: path, Pos: open.Pos}
		}

	default:
		return nil, p.Unexpected("`as` or a type path")
	}

	err := p.ExpectOp(")")
	if err != nil {
		return nil, err
	}

	return op, nil
}

func parseClosure(p *lang.Parser) (Operation, error) {
	fn, err := p.ParseClosure()
	if err != nil {
		return nil, err
	}

	if len(fn.Params) != 1 {
		return nil, p.Errorf(fn.Pos,
			"closure must take exactly one parameter, found %d", len(fn.Params))
	}

	return Closure{Fn: fn}, nil
}
