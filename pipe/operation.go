package pipe

import (
	"strings"

	"github.com/ardnew/spipe/lang"
)

// Operation is what a step does to its input. The set of implementations is
// closed: [NoOp], [Call], [MethodCall], [Closure], [ConvertFrom],
// [ConvertTryFrom], and [ConvertAs].
type Operation interface {
	// String renders the operation as it would be written in a pipeline.
	String() string
	Position() lang.Position
	operation()
}

// NoOp passes its input through unchanged. Written "...".
type NoOp struct {
	Pos lang.Position
}

// Call invokes a function with the input inserted into its arguments.
// Written "name" or "name(args)".
type Call struct {
	Target *lang.Path
	Args   []lang.Expr // nil if no argument list was written
}

// MethodCall invokes a method on the input. Written ".name" or
// ".name(args)".
type MethodCall struct {
	Method *lang.Path
	Args   []lang.Expr // nil if no argument list was written
	Pos    lang.Position
}

// Closure invokes a one-parameter closure literal on the input.
type Closure struct {
	Fn *lang.Closure
}

// ConvertFrom converts the input with Type::from. Written "(Type)".
type ConvertFrom struct {
	Type *lang.Path
	Pos  lang.Position
}

// ConvertTryFrom converts the input with Type::try_from. Written "(Type?)".
type ConvertTryFrom struct {
	Type *lang.Path
	Pos  lang.Position
}

// ConvertAs casts the input with the as operator. Written "(as Type)".
type ConvertAs struct {
	Type lang.Type
	Pos  lang.Position
}

func (NoOp) operation()           {}
func (Call) operation()           {}
func (MethodCall) operation()     {}
func (Closure) operation()        {}
func (ConvertFrom) operation()    {}
func (ConvertTryFrom) operation() {}
func (ConvertAs) operation()      {}

func (o NoOp) Position() lang.Position           { return o.Pos }
func (o Call) Position() lang.Position           { return o.Target.Pos }
func (o MethodCall) Position() lang.Position     { return o.Pos }
func (o Closure) Position() lang.Position        { return o.Fn.Pos }
func (o ConvertFrom) Position() lang.Position    { return o.Pos }
func (o ConvertTryFrom) Position() lang.Position { return o.Pos }
func (o ConvertAs) Position() lang.Position      { return o.Pos }

func (NoOp) String() string { return "..." }

func (o Call) String() string {
	return lang.String(o.Target) + argsString(o.Args)
}

func (o MethodCall) String() string {
	return "." + lang.String(o.Method) + argsString(o.Args)
}

func (o Closure) String() string { return lang.String(o.Fn) }

func (o ConvertFrom) String() string {
	return "(" + lang.TypeString(o.Type) + ")"
}

func (o ConvertTryFrom) String() string {
	return "(" + lang.TypeString(o.Type) + "?)"
}

func (o ConvertAs) String() string {
	return "(as " + lang.TypeString(o.Type) + ")"
}

func argsString(args []lang.Expr) string {
	if args == nil {
		return ""
	}

	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = lang.String(a)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// OperationName returns a short lowercase name for the operation's shape.
func OperationName(op Operation) string {
	switch op.(type) {
	case NoOp:
		return "noop"
	case Call:
		return "call"
	case MethodCall:
		return "method"
	case Closure:
		return "closure"
	case ConvertFrom:
		return "from"
	case ConvertTryFrom:
		return "try_from"
	case ConvertAs:
		return "as"
	default:
		return "unknown"
	}
}
