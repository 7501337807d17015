package lang

import (
	"io"
	"strings"
)

// String renders n as host source on a single line.
func String(n Node) string {
	var pr printer

	pr.node(n)

	return pr.buf.String()
}

// TypeString renders t as host source. Unlike [String], a [Path] is printed
// in type position, without a turbofish.
func TypeString(t Type) string {
	var pr printer

	pr.typ(t)

	return pr.buf.String()
}

// Format writes n to w as host source. If indent is greater than zero,
// blocks are broken over multiple lines using indent spaces per level;
// otherwise everything is written on one line.
func Format(w io.Writer, n Node, indent int) error {
	pr := printer{indent: max(indent, 0)}

	pr.node(n)

	_, err := io.WriteString(w, pr.buf.String())

	return err
}

// Precedence returns the binding strength of x, from the loosest
// (closures and assignment) to the tightest (literals and paths). An
// operand whose precedence is lower than its context requires is printed in
// parentheses.
func Precedence(x Expr) int {
	switch x := x.(type) {
	case *Closure, *Assign:
		return precLowest
	case *Binary:
		return binaryPrec[x.Op]
	case *Cast:
		return precCast
	case *Unary, *Ref:
		return precPrefix
	case *Call, *MethodCall, *Field, *Index, *Try:
		return precPostfix
	default:
		return precPrimary
	}
}

type printer struct {
	buf    strings.Builder
	indent int
	level  int
}

func (pr *printer) write(s ...string) {
	for _, v := range s {
		pr.buf.WriteString(v)
	}
}

func (pr *printer) newline() {
	pr.buf.WriteByte('\n')
	pr.buf.WriteString(strings.Repeat(" ", pr.indent*pr.level))
}

func (pr *printer) node(n Node) {
	switch n := n.(type) {
	case Expr:
		pr.expr(n, precLowest)
	case Type:
		pr.typ(n)
	case Pattern:
		pr.pattern(n)
	case Stmt:
		pr.stmt(n)
	}
}

// expr prints x, parenthesized if it binds looser than min.
func (pr *printer) expr(x Expr, min int) {
	if Precedence(x) < min {
		pr.write("(")
		pr.expr(x, precLowest)
		pr.write(")")

		return
	}

	switch x := x.(type) {
	case *Path:
		pr.path(x, true)

	case *Lit:
		pr.write(x.Text)

	case *Tuple:
		pr.write("(")
		pr.exprs(x.Elems)

		if len(x.Elems) == 1 {
			pr.write(",")
		}

		pr.write(")")

	case *Paren:
		pr.write("(")
		pr.expr(x.X, precLowest)
		pr.write(")")

	case *Array:
		pr.write("[")

		if x.Len != nil && len(x.Elems) == 1 {
			pr.expr(x.Elems[0], precLowest)
			pr.write("; ")
			pr.expr(x.Len, precLowest)
		} else {
			pr.exprs(x.Elems)
		}

		pr.write("]")

	case *Call:
		pr.expr(x.Fn, precPostfix)
		pr.write("(")
		pr.exprs(x.Args)
		pr.write(")")

	case *MethodCall:
		pr.expr(x.Recv, precPostfix)
		pr.write(".", x.Method)

		if len(x.Generics) > 0 {
			pr.write("::")
			pr.generics(x.Generics)
		}

		pr.write("(")
		pr.exprs(x.Args)
		pr.write(")")

	case *Field:
		pr.expr(x.X, precPostfix)
		pr.write(".", x.Name)

	case *Index:
		pr.expr(x.X, precPostfix)
		pr.write("[")
		pr.expr(x.Index, precLowest)
		pr.write("]")

	case *Try:
		pr.expr(x.X, precPostfix)
		pr.write("?")

	case *Unary:
		pr.write(x.Op)
		pr.expr(x.X, precPrefix)

	case *Ref:
		pr.write("&")

		if x.Mut {
			pr.write("mut ")
		}

		pr.expr(x.X, precPrefix)

	case *Binary:
		prec := binaryPrec[x.Op]

		left, right := prec, prec+1
		if prec == precCompare {
			left = prec + 1
		}

		// `a as T < b` would read as the start of generic arguments.
		if _, ok := x.X.(*Cast); ok && (x.Op == "<" || x.Op == "<<") {
			left = precPrimary
		}

		pr.expr(x.X, left)
		pr.write(" ", x.Op, " ")
		pr.expr(x.Y, right)

	case *Assign:
		pr.expr(x.X, precLowest+1)
		pr.write(" ", x.Op, " ")
		pr.expr(x.Y, precLowest)

	case *Cast:
		pr.expr(x.X, precCast)
		pr.write(" as ")
		pr.typ(x.Type)

	case *Closure:
		pr.closure(x)

	case *Macro:
		pr.path(x.Path, true)
		pr.write("!", string(x.Delim), x.Body, string(closingDelim(x.Delim)))

	case *Block:
		pr.block(x)
	}
}

func (pr *printer) exprs(list []Expr) {
	for i, x := range list {
		if i > 0 {
			pr.write(", ")
		}

		pr.expr(x, precLowest)
	}
}

func (pr *printer) closure(c *Closure) {
	if c.Move {
		pr.write("move ")
	}

	pr.write("|")

	for i, param := range c.Params {
		if i > 0 {
			pr.write(", ")
		}

		pr.pattern(param.Pat)

		if param.Type != nil {
			pr.write(": ")
			pr.typ(param.Type)
		}
	}

	pr.write("| ")

	if c.Ret != nil {
		pr.write("-> ")
		pr.typ(c.Ret)
		pr.write(" ")
	}

	pr.expr(c.Body, precLowest)
}

func (pr *printer) block(b *Block) {
	if len(b.Stmts) == 0 && b.Tail == nil {
		pr.write("{}")

		return
	}

	if pr.indent == 0 {
		pr.write("{ ")

		for _, s := range b.Stmts {
			pr.stmt(s)
			pr.write(" ")
		}

		if b.Tail != nil {
			pr.expr(b.Tail, precLowest)
			pr.write(" ")
		}

		pr.write("}")

		return
	}

	pr.write("{")
	pr.level++

	for _, s := range b.Stmts {
		pr.newline()
		pr.stmt(s)
	}

	if b.Tail != nil {
		pr.newline()
		pr.expr(b.Tail, precLowest)
	}

	pr.level--
	pr.newline()
	pr.write("}")
}

func (pr *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *Let:
		pr.write("let ")
		pr.pattern(s.Pat)

		if s.Type != nil {
			pr.write(": ")
			pr.typ(s.Type)
		}

		if s.Init != nil {
			pr.write(" = ")
			pr.expr(s.Init, precLowest)
		}

		pr.write(";")

	case *ExprStmt:
		pr.expr(s.X, precLowest)
		pr.write(";")
	}
}

func (pr *printer) pattern(p Pattern) {
	switch p := p.(type) {
	case *IdentPat:
		if p.Mut {
			pr.write("mut ")
		}

		pr.write(p.Name)

	case *WildPat:
		pr.write("_")

	case *RefPat:
		pr.write("&")

		if p.Mut {
			pr.write("mut ")
		}

		pr.pattern(p.Pat)

	case *TuplePat:
		pr.write("(")

		for i, e := range p.Elems {
			if i > 0 {
				pr.write(", ")
			}

			pr.pattern(e)
		}

		if len(p.Elems) == 1 {
			pr.write(",")
		}

		pr.write(")")
	}
}

// path prints p; in expression position generic arguments use a turbofish.
func (pr *printer) path(p *Path, expr bool) {
	if p.Global {
		pr.write("::")
	}

	for i, seg := range p.Segments {
		if i > 0 {
			pr.write("::")
		}

		pr.write(seg.Name)

		if len(seg.Args) > 0 {
			if expr {
				pr.write("::")
			}

			pr.generics(seg.Args)
		}
	}
}

func (pr *printer) generics(args []Type) {
	pr.write("<")

	for i, t := range args {
		if i > 0 {
			pr.write(", ")
		}

		pr.typ(t)
	}

	pr.write(">")
}

func (pr *printer) typ(t Type) {
	switch t := t.(type) {
	case *Path:
		pr.path(t, false)

	case *RefType:
		pr.write("&")

		if t.Lifetime != "" {
			pr.write(t.Lifetime, " ")
		}

		if t.Mut {
			pr.write("mut ")
		}

		pr.typ(t.Elem)

	case *TupleType:
		pr.write("(")

		for i, e := range t.Elems {
			if i > 0 {
				pr.write(", ")
			}

			pr.typ(e)
		}

		if len(t.Elems) == 1 {
			pr.write(",")
		}

		pr.write(")")

	case *SliceType:
		pr.write("[")
		pr.typ(t.Elem)
		pr.write("]")

	case *ArrayType:
		pr.write("[")
		pr.typ(t.Elem)
		pr.write("; ")
		pr.expr(t.Len, precLowest)
		pr.write("]")

	case *InferType:
		pr.write("_")

	case *Lifetime:
		pr.write(t.Name)

	case *TraitType:
		pr.write(t.Keyword, " ")

		for i, b := range t.Bounds {
			if i > 0 {
				pr.write(" + ")
			}

			pr.typ(b)
		}
	}
}
