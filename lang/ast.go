package lang

// Node is any element of the host syntax tree.
type Node interface {
	Position() Position
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Type is a type node.
type Type interface {
	Node
	typeNode()
}

// Pattern is a binding pattern used by closure parameters and let
// statements.
type Pattern interface {
	Node
	patternNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Path is a possibly-qualified name such as a::b::<T>::c. It is both an
// expression and a type; generic arguments are printed with a turbofish in
// expression position.
type Path struct {
	Segments []PathSegment
	Pos      Position
	Global   bool // leading ::
}

// PathSegment is one component of a [Path].
type PathSegment struct {
	Name string
	Args []Type
}

// NewPath returns an unqualified path made of the given segment names.
func NewPath(pos Position, names ...string) *Path {
	p := &Path{Pos: pos, Segments: make([]PathSegment, len(names))}
	for i, name := range names {
		p.Segments[i].Name = name
	}

	return p
}

// Ident returns the path's name if it is a single identifier with no
// generic arguments and no leading ::.
func (p *Path) Ident() (string, bool) {
	if p.Global || len(p.Segments) != 1 || len(p.Segments[0].Args) > 0 {
		return "", false
	}

	return p.Segments[0].Name, true
}

// Join returns a new path with name appended as a final segment.
func (p *Path) Join(name string) *Path {
	segs := make([]PathSegment, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)

	return &Path{
		Pos:      p.Pos,
		Global:   p.Global,
		Segments: append(segs, PathSegment{Name: name}),
	}
}

// Lit is a literal token: number, string, character, or boolean.
type Lit struct {
	Text string
	Pos  Position
	Kind TokenKind // TokenIdent for true/false
}

// Tuple is a parenthesized, comma-separated list. The empty tuple () is the
// unit value.
type Tuple struct {
	Elems []Expr
	Pos   Position
}

// IsUnit reports whether t is the empty tuple.
func (t *Tuple) IsUnit() bool { return len(t.Elems) == 0 }

// Paren is an expression wrapped in parentheses in the source.
type Paren struct {
	X   Expr
	Pos Position
}

// Array is [a, b, c] or, with Len set, [x; n].
type Array struct {
	Len   Expr
	Elems []Expr
	Pos   Position
}

// Call is a function call Fn(Args...).
type Call struct {
	Fn   Expr
	Args []Expr
	Pos  Position
}

// MethodCall is Recv.Method::<Generics>(Args...).
type MethodCall struct {
	Recv     Expr
	Method   string
	Generics []Type
	Args     []Expr
	Pos      Position
}

// Field is X.Name, where Name may be a tuple index.
type Field struct {
	X    Expr
	Name string
	Pos  Position
}

// Index is X[Index].
type Index struct {
	X     Expr
	Index Expr
	Pos   Position
}

// Try is the error-propagation operator X?.
type Try struct {
	X   Expr
	Pos Position
}

// Unary is a prefix operator: -, !, or * (dereference).
type Unary struct {
	X   Expr
	Op  string
	Pos Position
}

// Ref is a borrow &X or &mut X.
type Ref struct {
	X   Expr
	Pos Position
	Mut bool
}

// Binary is an infix operator expression.
type Binary struct {
	X   Expr
	Y   Expr
	Op  string
	Pos Position
}

// Assign is an assignment or compound assignment.
type Assign struct {
	X   Expr
	Y   Expr
	Op  string
	Pos Position
}

// Cast is X as Type.
type Cast struct {
	X    Expr
	Type Type
	Pos  Position
}

// Closure is a closure literal |params| body.
type Closure struct {
	Body   Expr
	Ret    Type // nil unless an explicit return type was written
	Params []Param
	Pos    Position
	Move   bool
}

// Param is a closure parameter with an optional type annotation.
type Param struct {
	Pat  Pattern
	Type Type
}

// Macro is a macro invocation. Its body is kept as source text.
type Macro struct {
	Path  *Path
	Body  string
	Pos   Position
	Delim byte // '(', '[', or '{'
}

// Block is { stmts; tail }. A nil Tail makes the block evaluate to ().
type Block struct {
	Tail  Expr
	Stmts []Stmt
	Pos   Position
}

// Let is a let statement. Type and Init are optional.
type Let struct {
	Pat  Pattern
	Type Type
	Init Expr
	Pos  Position
}

// ExprStmt is an expression terminated by a semicolon.
type ExprStmt struct {
	X Expr
}

// IdentPat binds a name, optionally mutably.
type IdentPat struct {
	Name string
	Pos  Position
	Mut  bool
}

// WildPat is the _ pattern.
type WildPat struct {
	Pos Position
}

// TuplePat destructures a tuple.
type TuplePat struct {
	Elems []Pattern
	Pos   Position
}

// RefPat matches through a reference: &x or &mut x.
type RefPat struct {
	Pat Pattern
	Pos Position
	Mut bool
}

// RefType is &'a mut T.
type RefType struct {
	Elem     Type
	Lifetime string
	Pos      Position
	Mut      bool
}

// TupleType is (A, B). The empty tuple type is the unit type.
type TupleType struct {
	Elems []Type
	Pos   Position
}

// SliceType is [T].
type SliceType struct {
	Elem Type
	Pos  Position
}

// ArrayType is [T; N].
type ArrayType struct {
	Elem Type
	Len  Expr
	Pos  Position
}

// InferType is the _ placeholder type.
type InferType struct {
	Pos Position
}

// Lifetime is a lifetime used as a generic argument or trait bound.
type Lifetime struct {
	Name string // including the leading quote
	Pos  Position
}

// TraitType is dyn A + B or impl A + B.
type TraitType struct {
	Keyword string
	Bounds  []Type
	Pos     Position
}

func (n *Path) Position() Position       { return n.Pos }
func (n *Lit) Position() Position        { return n.Pos }
func (n *Tuple) Position() Position      { return n.Pos }
func (n *Paren) Position() Position      { return n.Pos }
func (n *Array) Position() Position      { return n.Pos }
func (n *Call) Position() Position       { return n.Pos }
func (n *MethodCall) Position() Position { return n.Pos }
func (n *Field) Position() Position      { return n.Pos }
func (n *Index) Position() Position      { return n.Pos }
func (n *Try) Position() Position        { return n.Pos }
func (n *Unary) Position() Position      { return n.Pos }
func (n *Ref) Position() Position        { return n.Pos }
func (n *Binary) Position() Position     { return n.Pos }
func (n *Assign) Position() Position     { return n.Pos }
func (n *Cast) Position() Position       { return n.Pos }
func (n *Closure) Position() Position    { return n.Pos }
func (n *Macro) Position() Position      { return n.Pos }
func (n *Block) Position() Position      { return n.Pos }
func (n *Let) Position() Position        { return n.Pos }
func (n *ExprStmt) Position() Position   { return n.X.Position() }
func (n *IdentPat) Position() Position   { return n.Pos }
func (n *WildPat) Position() Position    { return n.Pos }
func (n *TuplePat) Position() Position   { return n.Pos }
func (n *RefPat) Position() Position     { return n.Pos }
func (n *RefType) Position() Position    { return n.Pos }
func (n *TupleType) Position() Position  { return n.Pos }
func (n *SliceType) Position() Position  { return n.Pos }
func (n *ArrayType) Position() Position  { return n.Pos }
func (n *InferType) Position() Position  { return n.Pos }
func (n *Lifetime) Position() Position   { return n.Pos }
func (n *TraitType) Position() Position  { return n.Pos }

func (*Path) exprNode()       {}
func (*Lit) exprNode()        {}
func (*Tuple) exprNode()      {}
func (*Paren) exprNode()      {}
func (*Array) exprNode()      {}
func (*Call) exprNode()       {}
func (*MethodCall) exprNode() {}
func (*Field) exprNode()      {}
func (*Index) exprNode()      {}
func (*Try) exprNode()        {}
func (*Unary) exprNode()      {}
func (*Ref) exprNode()        {}
func (*Binary) exprNode()     {}
func (*Assign) exprNode()     {}
func (*Cast) exprNode()       {}
func (*Closure) exprNode()    {}
func (*Macro) exprNode()      {}
func (*Block) exprNode()      {}

func (*Path) typeNode()      {}
func (*RefType) typeNode()   {}
func (*TupleType) typeNode() {}
func (*SliceType) typeNode() {}
func (*ArrayType) typeNode() {}
func (*InferType) typeNode() {}
func (*Lifetime) typeNode()  {}
func (*TraitType) typeNode() {}

func (*IdentPat) patternNode() {}
func (*WildPat) patternNode()  {}
func (*TuplePat) patternNode() {}
func (*RefPat) patternNode()   {}

func (*Let) stmtNode()      {}
func (*ExprStmt) stmtNode() {}
