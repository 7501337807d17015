package pipe

import (
	"strconv"

	"github.com/ardnew/spipe/lang"
)

// Names are the identifiers written into generated code.
type Names struct {
	AndThen  string `json:"and_then"  yaml:"and_then"`
	Map      string `json:"map"       yaml:"map"`
	Clone    string `json:"clone"     yaml:"clone"`
	Unwrap   string `json:"unwrap"    yaml:"unwrap"`
	From     string `json:"from"      yaml:"from"`
	TryFrom  string `json:"try_from"  yaml:"try_from"`
	Temp     string `json:"temp"      yaml:"temp"`      // prefix of Apply temporaries
	MapParam string `json:"map_param" yaml:"map_param"` // closure parameter of AndThen/Map
}

// DefaultNames returns the standard combinator and hygiene names.
func DefaultNames() Names {
	return Names{
		AndThen:  "and_then",
		Map:      "map",
		Clone:    "clone",
		Unwrap:   "unwrap",
		From:     "from",
		TryFrom:  "try_from",
		Temp:     "__var_",
		MapParam: "__map_var",
	}
}

// Merge returns n with every empty field taken from def.
func (n Names) Merge(def Names) Names {
	fill := func(s *string, d string) {
		if *s == "" {
			*s = d
		}
	}

	fill(&n.AndThen, def.AndThen)
	fill(&n.Map, def.Map)
	fill(&n.Clone, def.Clone)
	fill(&n.Unwrap, def.Unwrap)
	fill(&n.From, def.From)
	fill(&n.TryFrom, def.TryFrom)
	fill(&n.Temp, def.Temp)
	fill(&n.MapParam, def.MapParam)

	return n
}

// Generator builds host expressions from steps.
type Generator struct {
	Names Names
}

// NewGenerator returns a generator using names, with empty fields filled
// from [DefaultNames].
func NewGenerator(names Names) Generator {
	return Generator{Names: names.Merge(DefaultNames())}
}

// Transform returns the expression for one step of kind with operation op
// applied to the pipe value acc. The counter is advanced before an Apply or
// ApplyMut temporary is named, even if op then fails.
func Transform(kind StepKind, op Operation, acc lang.Expr, h *Counter) (lang.Expr, error) {
	return NewGenerator(Names{}).Transform(kind, op, acc, h)
}

// ApplyOperation returns the expression that applies op to input.
func ApplyOperation(op Operation, input lang.Expr) (lang.Expr, error) {
	return NewGenerator(Names{}).Apply(op, input)
}

// Transform returns the expression for one step; see [Transform].
func (g Generator) Transform(
	kind StepKind,
	op Operation,
	acc lang.Expr,
	h *Counter,
) (lang.Expr, error) {
	pos := op.Position()

	switch kind {
	case Basic:
		return g.Apply(op, acc)

	case AndThen:
		return g.combinator(g.Names.AndThen, op, acc)

	case Map:
		return g.combinator(g.Names.Map, op, acc)

	case Try:
		return g.Apply(op, &lang.Try{X: acc, Pos: pos})

	case Unwrap:
		return g.Apply(op, methodCall(acc, g.Names.Unwrap, pos))

	case Clone:
		return g.Apply(op, methodCall(acc, g.Names.Clone, pos))

	case Apply, ApplyMut:
		mut := kind == ApplyMut
		name := g.Names.Temp + strconv.FormatUint(h.Next(), 10)

		inner, err := g.Apply(op, &lang.Ref{
			X:   lang.NewPath(pos, name),
			Mut: mut,
			Pos: pos,
		})
		if err != nil {
			return nil, err
		}

		return &lang.Block{
			Stmts: []lang.Stmt{
				&lang.Let{
					Pat:  &lang.IdentPat{Name: name, Mut: mut, Pos: pos},
					Init: acc,
					Pos:  pos,
				},
				&lang.ExprStmt{X: inner},
			},
			Tail: lang.NewPath(pos, name),
			Pos:  pos,
		}, nil
	}

	return nil, lang.Generatef(pos, "unknown step kind %s", kind)
}

// combinator wraps op in a one-parameter closure passed to method on acc.
func (g Generator) combinator(method string, op Operation, acc lang.Expr) (lang.Expr, error) {
	pos := op.Position()

	body, err := g.Apply(op, lang.NewPath(pos, g.Names.MapParam))
	if err != nil {
		return nil, err
	}

	closure := &lang.Closure{
		Params: []lang.Param{{Pat: &lang.IdentPat{Name: g.Names.MapParam, Pos: pos}}},
		Body:   body,
		Pos:    pos,
	}

	return &lang.MethodCall{
		Recv:   acc,
		Method: method,
		Args:   []lang.Expr{closure},
		Pos:    pos,
	}, nil
}

// Apply returns the expression that applies op to input.
func (g Generator) Apply(op Operation, input lang.Expr) (lang.Expr, error) {
	switch op := op.(type) {
	case NoOp:
		return input, nil

	case Call:
		return &lang.Call{
			Fn:   op.Target,
			Args: insertInput(op.Args, input),
			Pos:  op.Target.Pos,
		}, nil

	case MethodCall:
		if op.Method.Global || len(op.Method.Segments) != 1 {
			return nil, lang.Generatef(op.Pos,
				"expected ident, found `%s`", lang.String(op.Method))
		}

		seg := op.Method.Segments[0]

		args := op.Args
		if args == nil {
			args = []lang.Expr{}
		}

		return &lang.MethodCall{
			Recv:     input,
			Method:   seg.Name,
			Generics: seg.Args,
			Args:     args,
			Pos:      op.Pos,
		}, nil

	case Closure:
		return &lang.Call{
			Fn:   op.Fn,
			Args: []lang.Expr{input},
			Pos:  op.Fn.Pos,
		}, nil

	case ConvertFrom:
		return &lang.Call{
			Fn:   op.Type.Join(g.Names.From),
			Args: []lang.Expr{input},
			Pos:  op.Pos,
		}, nil

	case ConvertTryFrom:
		return &lang.Call{
			Fn:   op.Type.Join(g.Names.TryFrom),
			Args: []lang.Expr{input},
			Pos:  op.Pos,
		}, nil

	case ConvertAs:
		return &lang.Cast{X: input, Type: op.Type, Pos: op.Pos}, nil
	}

	return nil, lang.Generatef(lang.Position{}, "unknown operation %T", op)
}

// insertInput returns a copy of args with the first unit placeholder ()
// replaced by input, or with input prepended if there is no placeholder.
func insertInput(args []lang.Expr, input lang.Expr) []lang.Expr {
	for i, a := range args {
		if t, ok := a.(*lang.Tuple); ok && t.IsUnit() {
			out := make([]lang.Expr, len(args))
			copy(out, args)
			out[i] = input

			return out
		}
	}

	return append([]lang.Expr{input}, args...)
}

// HasPlaceholder reports whether args contains a unit placeholder ().
func HasPlaceholder(args []lang.Expr) bool {
	for _, a := range args {
		if t, ok := a.(*lang.Tuple); ok && t.IsUnit() {
			return true
		}
	}

	return false
}

func methodCall(recv lang.Expr, method string, pos lang.Position) *lang.MethodCall {
	return &lang.MethodCall{
		Recv:   recv,
		Method: method,
		Args:   []lang.Expr{},
		Pos:    pos,
	}
}
