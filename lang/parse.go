package lang

import (
	"strings"
)

// Operator precedence, loosest first.
const (
	precLowest  = iota // closures, assignment
	precRange          // .. (unsupported, reserved)
	precOrOr           // ||
	precAndAnd         // &&
	precCompare        // == != < > <= >=
	precBitOr          // |
	precBitXor         // ^
	precBitAnd         // &
	precShift          // << >>
	precSum            // + -
	precProduct        // * / %
	precCast           // as
	precPrefix         // - ! * &
	precPostfix        // calls, fields, indexing, ?
	precPrimary        // literals, paths, groups
)

// binaryPrec maps infix operators to their precedence.
var binaryPrec = map[string]int{
	"||": precOrOr,
	"&&": precAndAnd,
	"==": precCompare, "!=": precCompare,
	"<": precCompare, ">": precCompare, "<=": precCompare, ">=": precCompare,
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"<<": precShift, ">>": precShift,
	"+": precSum, "-": precSum,
	"*": precProduct, "/": precProduct, "%": precProduct,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"^=": true, "&=": true, "|=": true, "<<=": true, ">>=": true,
}

// operators lists every multi-character operator composed of joint
// punctuation, longest first.
var operators = []string{
	"<<=", ">>=", "...", "..=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=",
	"::", "->", "..",
}

// unsupported names keywords that begin expressions outside the supported
// subset.
var unsupported = map[string]bool{
	"if": true, "match": true, "loop": true, "while": true, "for": true,
	"return": true, "break": true, "continue": true, "unsafe": true,
	"async": true, "const": true, "static": true, "struct": true,
	"yield": true, "fn": true,
}

// DefaultMaxDepth bounds the nesting of expressions and types.
const DefaultMaxDepth = 256

// Parser is a recursive descent parser over the tokens of one source text.
//
// The exported cursor methods ([Parser.Peek], [Parser.Next],
// [Parser.PeekOp], ...) let other grammars embed host expressions and types
// in their own syntax.
type Parser struct {
	source   string
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
}

// NewParser lexes src and returns a parser positioned at its first token.
func NewParser(src string) (*Parser, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	return &Parser{
		source:   src,
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
	}, nil
}

// SetMaxDepth sets the nesting limit. Values less than 1 restore
// [DefaultMaxDepth].
func (p *Parser) SetMaxDepth(n int) {
	if n < 1 {
		n = DefaultMaxDepth
	}

	p.maxDepth = n
}

// ParseExpr parses a complete expression from src.
func ParseExpr(src string) (Expr, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}

	x, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	if !p.EOF() {
		return nil, p.Unexpected("end of input")
	}

	return x, nil
}

// ParseType parses a complete type from src.
func ParseType(src string) (Type, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}

	t, err := p.ParseType()
	if err != nil {
		return nil, err
	}

	if !p.EOF() {
		return nil, p.Unexpected("end of input")
	}

	return t, nil
}

// Source returns the text being parsed.
func (p *Parser) Source() string { return p.source }

// Peek returns the current token without consuming it.
func (p *Parser) Peek() Token { return p.PeekN(0) }

// PeekN returns the token n positions ahead of the cursor.
func (p *Parser) PeekN(n int) Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}

	return p.tokens[len(p.tokens)-1]
}

// Next consumes and returns the current token.
func (p *Parser) Next() Token {
	tok := p.Peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

// EOF reports whether every token has been consumed.
func (p *Parser) EOF() bool { return p.Peek().Kind == TokenEOF }

// op returns the operator at the cursor: the longest entry of operators
// spelled by a run of joint punctuation, or the single punctuation
// character otherwise.
func (p *Parser) op() string {
	tok := p.Peek()
	if tok.Kind != TokenPunct {
		return ""
	}

	var run strings.Builder

	for i := 0; i < 3; i++ {
		t := p.PeekN(i)
		if t.Kind != TokenPunct || isDelimiter(rune(t.Text[0])) {
			break
		}

		run.WriteString(t.Text)

		if !t.Joint {
			break
		}
	}

	s := run.String()
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}

	return tok.Text
}

// PeekOp reports whether the operator at the cursor is exactly op. A '='
// does not match the start of "=>" or "==".
func (p *Parser) PeekOp(op string) bool { return p.op() == op }

// EatOp consumes op if it is the operator at the cursor.
func (p *Parser) EatOp(op string) bool {
	if !p.PeekOp(op) {
		return false
	}

	p.pos += len(op)

	return true
}

// ExpectOp consumes op or reports a syntax error.
func (p *Parser) ExpectOp(op string) error {
	if !p.EatOp(op) {
		return p.Unexpected("`" + op + "`")
	}

	return nil
}

// Errorf returns a syntax diagnostic at pos.
func (p *Parser) Errorf(pos Position, format string, args ...any) *Diagnostic {
	return Syntaxf(pos, format, args...).WithSource(p.source)
}

// Unexpected returns a syntax diagnostic describing the token at the cursor
// and what was expected instead.
func (p *Parser) Unexpected(expected string) *Diagnostic {
	tok := p.Peek()

	found := tok.String()
	if op := p.op(); op != "" {
		found = "`" + op + "`"
	}

	return p.Errorf(tok.Pos, "expected %s, found %s", expected, found)
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.Errorf(p.Peek().Pos, "nesting exceeds maximum depth %d", p.maxDepth)
	}

	return nil
}

func (p *Parser) leave() { p.depth-- }

// ParseExpr parses an expression, stopping before any token that cannot
// continue it (such as "=>" or a closing delimiter).
func (p *Parser) ParseExpr() (Expr, error) {
	return p.parseBinary(precLowest)
}

func (p *Parser) parseBinary(minPrec int) (Expr, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		if p.Peek().IsKeyword("as") {
			if minPrec > precCast {
				return lhs, nil
			}

			pos := p.Next().Pos

			typ, err := p.ParseType()
			if err != nil {
				return nil, err
			}

			lhs = &Cast{X: lhs, Type: typ, Pos: pos}

			continue
		}

		op := p.op()

		if assignOps[op] {
			if minPrec > precLowest {
				return lhs, nil
			}

			pos := p.Peek().Pos
			p.pos += len(op)

			rhs, err := p.parseBinary(precLowest)
			if err != nil {
				return nil, err
			}

			return &Assign{X: lhs, Y: rhs, Op: op, Pos: pos}, nil
		}

		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			return lhs, nil
		}

		pos := p.Peek().Pos
		p.pos += len(op)

		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		lhs = &Binary{X: lhs, Y: rhs, Op: op, Pos: pos}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	tok := p.Peek()

	switch op := p.op(); op {
	case "-", "!", "*":
		p.Next()

		x, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		return &Unary{X: x, Op: op, Pos: tok.Pos}, nil

	case "&", "&&":
		p.Next()

		mut := p.Peek().IsKeyword("mut")
		if mut {
			p.Next()
		}

		x, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		// "&&x" lexes as one operator; the second '&' is left for the
		// operand, which borrows again.
		return &Ref{X: x, Mut: mut, Pos: tok.Pos}, nil
	}

	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return p.parsePostfix(x)
}

// parseOperand parses the operand of a prefix operator.
func (p *Parser) parseOperand() (Expr, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	return p.parseUnary()
}

func (p *Parser) parsePostfix(x Expr) (Expr, error) {
	for {
		tok := p.Peek()

		switch {
		case tok.IsPunct('('):
			args, err := p.ParseArgs()
			if err != nil {
				return nil, err
			}

			x = &Call{Fn: x, Args: args, Pos: tok.Pos}

		case tok.IsPunct('['):
			p.Next()

			idx, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}

			err = p.ExpectOp("]")
			if err != nil {
				return nil, err
			}

			x = &Index{X: x, Index: idx, Pos: tok.Pos}

		case p.PeekOp("?"):
			p.Next()

			x = &Try{X: x, Pos: tok.Pos}

		case p.PeekOp("."):
			p.Next()

			var err error

			x, err = p.parseMember(x, tok.Pos)
			if err != nil {
				return nil, err
			}

		default:
			return x, nil
		}
	}
}

// parseMember parses what follows a '.': a field, tuple index, or method
// call.
func (p *Parser) parseMember(x Expr, pos Position) (Expr, error) {
	name := p.Peek()

	switch name.Kind {
	case TokenInt:
		p.Next()

		return &Field{X: x, Name: name.Text, Pos: pos}, nil

	case TokenIdent:
		p.Next()

	default:
		return nil, p.Unexpected("field or method name")
	}

	var generics []Type

	if p.PeekOp("::") && p.PeekN(2).IsPunct('<') {
		p.Next()
		p.Next()
		p.Next()

		var err error

		generics, err = p.parseGenericArgs()
		if err != nil {
			return nil, err
		}
	}

	if !p.Peek().IsPunct('(') {
		if generics != nil {
			return nil, p.Unexpected("`(`")
		}

		return &Field{X: x, Name: name.Text, Pos: pos}, nil
	}

	args, err := p.ParseArgs()
	if err != nil {
		return nil, err
	}

	return &MethodCall{
		Recv:     x,
		Method:   name.Text,
		Generics: generics,
		Args:     args,
		Pos:      pos,
	}, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.Peek()

	switch {
	case tok.Kind == TokenInt, tok.Kind == TokenFloat,
		tok.Kind == TokenString, tok.Kind == TokenChar:
		p.Next()

		return &Lit{Text: tok.Text, Kind: tok.Kind, Pos: tok.Pos}, nil

	case tok.IsKeyword("true"), tok.IsKeyword("false"):
		p.Next()

		return &Lit{Text: tok.Text, Kind: TokenIdent, Pos: tok.Pos}, nil

	case tok.IsKeyword("move"), p.PeekOp("|"), p.PeekOp("||"):
		return p.ParseClosure()

	case tok.Kind == TokenIdent && unsupported[tok.Text]:
		return nil, p.Errorf(tok.Pos, "unsupported expression %s", tok)

	case tok.Kind == TokenIdent && !keywords[tok.Text], p.PeekOp("::"):
		path, err := p.ParsePath(true)
		if err != nil {
			return nil, err
		}

		if p.PeekOp("!") && isMacroDelim(p.PeekN(1)) {
			p.Next()

			return p.parseMacro(path)
		}

		return path, nil

	case tok.IsPunct('('):
		return p.parseGroup()

	case tok.IsPunct('['):
		return p.parseArray()

	case tok.IsPunct('{'):
		return p.ParseBlock()

	case p.PeekOp(".."), p.PeekOp("..."), p.PeekOp("..="):
		return nil, p.Errorf(tok.Pos, "unsupported expression: range")
	}

	return nil, p.Unexpected("expression")
}

func isMacroDelim(t Token) bool {
	return t.IsPunct('(') || t.IsPunct('[') || t.IsPunct('{')
}

// ParsePath parses a path. In expression position (expr is true) generic
// arguments must be introduced by a turbofish (::<T>); in type position the
// :: is optional.
func (p *Parser) ParsePath(expr bool) (*Path, error) {
	path := &Path{Pos: p.Peek().Pos}

	if p.EatOp("::") {
		path.Global = true
	}

	for {
		tok := p.Peek()
		if tok.Kind != TokenIdent || keywords[tok.Text] {
			return nil, p.Unexpected("identifier")
		}

		p.Next()

		seg := PathSegment{Name: tok.Text}

		if !expr && p.PeekOp("<") {
			p.Next()

			args, err := p.parseGenericArgs()
			if err != nil {
				return nil, err
			}

			seg.Args = args
		}

		path.Segments = append(path.Segments, seg)

		if !p.PeekOp("::") {
			return path, nil
		}

		if p.PeekN(2).IsPunct('<') {
			if len(seg.Args) > 0 {
				return nil, p.Unexpected("identifier")
			}

			p.Next()
			p.Next()
			p.Next()

			args, err := p.parseGenericArgs()
			if err != nil {
				return nil, err
			}

			path.Segments[len(path.Segments)-1].Args = args

			if !p.PeekOp("::") {
				return path, nil
			}
		}

		p.Next()
		p.Next()
	}
}

// parseGenericArgs parses a comma-separated list of types terminated by '>'.
// The opening '<' has been consumed.
func (p *Parser) parseGenericArgs() ([]Type, error) {
	args := []Type{}

	for !p.Peek().IsPunct('>') {
		t, err := p.ParseType()
		if err != nil {
			return nil, err
		}

		args = append(args, t)

		if !p.Peek().IsPunct(',') {
			break
		}

		p.Next()
	}

	if !p.Peek().IsPunct('>') {
		return nil, p.Unexpected("`>`")
	}

	// Consume a single '>' even when it is joint with another ('>>').
	p.Next()

	return args, nil
}

// ParseArgs parses a parenthesized, comma-separated expression list. A
// trailing comma is permitted.
func (p *Parser) ParseArgs() ([]Expr, error) {
	return p.parseList('(', ')')
}

func (p *Parser) parseList(open, close byte) ([]Expr, error) {
	if !p.Peek().IsPunct(open) {
		return nil, p.Unexpected("`" + string(open) + "`")
	}

	p.Next()

	list := []Expr{}

	for !p.Peek().IsPunct(close) {
		x, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		list = append(list, x)

		if !p.Peek().IsPunct(',') {
			break
		}

		p.Next()
	}

	if !p.Peek().IsPunct(close) {
		return nil, p.Unexpected("`,` or `" + string(close) + "`")
	}

	p.Next()

	return list, nil
}

// parseGroup parses (), (x), or (a, b, ...).
func (p *Parser) parseGroup() (Expr, error) {
	pos := p.Next().Pos

	if p.Peek().IsPunct(')') {
		p.Next()

		return &Tuple{Pos: pos}, nil
	}

	x, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	if p.Peek().IsPunct(')') {
		p.Next()

		return &Paren{X: x, Pos: pos}, nil
	}

	elems := []Expr{x}

	for p.Peek().IsPunct(',') {
		p.Next()

		if p.Peek().IsPunct(')') {
			break
		}

		x, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, x)
	}

	if !p.Peek().IsPunct(')') {
		return nil, p.Unexpected("`,` or `)`")
	}

	p.Next()

	return &Tuple{Elems: elems, Pos: pos}, nil
}

// parseArray parses [a, b, ...] or [x; n].
func (p *Parser) parseArray() (Expr, error) {
	pos := p.Peek().Pos

	if p.PeekN(1).IsPunct(']') {
		p.Next()
		p.Next()

		return &Array{Elems: []Expr{}, Pos: pos}, nil
	}

	p.Next()

	first, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	if p.EatOp(";") {
		n, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		err = p.ExpectOp("]")
		if err != nil {
			return nil, err
		}

		return &Array{Elems: []Expr{first}, Len: n, Pos: pos}, nil
	}

	elems := []Expr{first}

	for p.Peek().IsPunct(',') {
		p.Next()

		if p.Peek().IsPunct(']') {
			break
		}

		x, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, x)
	}

	err = p.ExpectOp("]")
	if err != nil {
		return nil, err
	}

	return &Array{Elems: elems, Pos: pos}, nil
}

// parseMacro parses the delimited body of a macro invocation. The body is
// not interpreted; its tokens only need to be balanced.
func (p *Parser) parseMacro(path *Path) (Expr, error) {
	open := p.Next()
	depth := 1

	for depth > 0 {
		tok := p.Next()

		switch {
		case tok.Kind == TokenEOF:
			return nil, p.Errorf(open.Pos, "unclosed delimiter %s", open)
		case isMacroDelim(tok):
			depth++
		case tok.IsPunct(')'), tok.IsPunct(']'), tok.IsPunct('}'):
			depth--
		}
	}

	closing := p.tokens[p.pos-1]
	if closing.Text[0] != closingDelim(open.Text[0]) {
		return nil, p.Errorf(closing.Pos, "mismatched closing delimiter %s", closing)
	}

	return &Macro{
		Path:  path,
		Body:  p.source[open.Pos.Offset+1 : closing.Pos.Offset],
		Delim: open.Text[0],
		Pos:   path.Pos,
	}, nil
}

func closingDelim(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

// ParseBlock parses { stmt; ... tail }.
func (p *Parser) ParseBlock() (*Block, error) {
	tok := p.Peek()
	if !tok.IsPunct('{') {
		return nil, p.Unexpected("`{`")
	}

	p.Next()

	block := &Block{Pos: tok.Pos}

	for !p.Peek().IsPunct('}') {
		if p.EatOp(";") {
			continue
		}

		if p.Peek().IsKeyword("let") {
			stmt, err := p.parseLet()
			if err != nil {
				return nil, err
			}

			block.Stmts = append(block.Stmts, stmt)

			continue
		}

		x, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		switch {
		case p.EatOp(";"):
			block.Stmts = append(block.Stmts, &ExprStmt{X: x})

		case p.Peek().IsPunct('}'):
			block.Tail = x

		default:
			if _, ok := x.(*Block); !ok {
				return nil, p.Unexpected("`;` or `}`")
			}

			block.Stmts = append(block.Stmts, &ExprStmt{X: x})
		}
	}

	p.Next()

	return block, nil
}

func (p *Parser) parseLet() (*Let, error) {
	pos := p.Next().Pos

	pat, err := p.ParsePattern()
	if err != nil {
		return nil, err
	}

	let := &Let{Pat: pat, Pos: pos}

	if p.EatOp(":") {
		let.Type, err = p.ParseType()
		if err != nil {
			return nil, err
		}
	}

	if p.EatOp("=") {
		let.Init, err = p.ParseExpr()
		if err != nil {
			return nil, err
		}
	}

	err = p.ExpectOp(";")
	if err != nil {
		return nil, err
	}

	return let, nil
}

// ParseClosure parses a closure literal: move? |params| (-> T)? body.
//
// A zero-parameter closure (||) is accepted; callers that require a specific
// arity check len(Params).
func (p *Parser) ParseClosure() (*Closure, error) {
	c := &Closure{Pos: p.Peek().Pos}

	if p.Peek().IsKeyword("move") {
		p.Next()

		c.Move = true
	}

	switch {
	case p.EatOp("||"):
		c.Params = []Param{}

	case p.EatOp("|"):
		c.Params = []Param{}

		for !p.PeekOp("|") {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}

			c.Params = append(c.Params, param)

			if !p.EatOp(",") {
				break
			}
		}

		err := p.ExpectOp("|")
		if err != nil {
			return nil, err
		}

	default:
		return nil, p.Unexpected("closure parameters")
	}

	var err error

	if p.EatOp("->") {
		c.Ret, err = p.ParseType()
		if err != nil {
			return nil, err
		}

		c.Body, err = p.ParseBlock()
		if err != nil {
			return nil, err
		}

		return c, nil
	}

	c.Body, err = p.ParseExpr()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (p *Parser) parseParam() (Param, error) {
	pat, err := p.ParsePattern()
	if err != nil {
		return Param{}, err
	}

	param := Param{Pat: pat}

	if p.EatOp(":") {
		param.Type, err = p.ParseType()
		if err != nil {
			return Param{}, err
		}
	}

	return param, nil
}

// ParsePattern parses a binding pattern: _, mut? name, &mut? pat, or a tuple
// of patterns.
func (p *Parser) ParsePattern() (Pattern, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.Peek()

	switch {
	case tok.IsKeyword("_"):
		p.Next()

		return &WildPat{Pos: tok.Pos}, nil

	case p.PeekOp("&"):
		p.Next()

		mut := p.Peek().IsKeyword("mut")
		if mut {
			p.Next()
		}

		pat, err := p.ParsePattern()
		if err != nil {
			return nil, err
		}

		return &RefPat{Pat: pat, Mut: mut, Pos: tok.Pos}, nil

	case tok.IsPunct('('):
		p.Next()

		tp := &TuplePat{Elems: []Pattern{}, Pos: tok.Pos}

		for !p.Peek().IsPunct(')') {
			pat, err := p.ParsePattern()
			if err != nil {
				return nil, err
			}

			tp.Elems = append(tp.Elems, pat)

			if !p.EatOp(",") {
				break
			}
		}

		err := p.ExpectOp(")")
		if err != nil {
			return nil, err
		}

		return tp, nil
	}

	mut := tok.IsKeyword("mut")
	if mut {
		p.Next()
	}

	name := p.Peek()
	if name.Kind != TokenIdent || keywords[name.Text] {
		return nil, p.Unexpected("pattern")
	}

	p.Next()

	return &IdentPat{Name: name.Text, Mut: mut, Pos: tok.Pos}, nil
}

// ParseType parses a type.
func (p *Parser) ParseType() (Type, error) {
	err := p.enter()
	if err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.Peek()

	switch {
	case tok.Kind == TokenLifetime:
		p.Next()

		return &Lifetime{Name: tok.Text, Pos: tok.Pos}, nil

	case p.PeekOp("&"), p.PeekOp("&&"):
		return p.parseRefType()

	case tok.IsPunct('('):
		return p.parseTupleType()

	case tok.IsPunct('['):
		return p.parseSliceType()

	case tok.IsKeyword("_"):
		p.Next()

		return &InferType{Pos: tok.Pos}, nil

	case tok.IsKeyword("dyn"), tok.IsKeyword("impl"):
		p.Next()

		tt := &TraitType{Keyword: tok.Text, Pos: tok.Pos}

		for {
			b, err := p.parseBound()
			if err != nil {
				return nil, err
			}

			tt.Bounds = append(tt.Bounds, b)

			if !p.EatOp("+") {
				return tt, nil
			}
		}

	case tok.Kind == TokenIdent && !keywords[tok.Text], p.PeekOp("::"):
		return p.ParsePath(false)
	}

	return nil, p.Unexpected("type")
}

func (p *Parser) parseBound() (Type, error) {
	if tok := p.Peek(); tok.Kind == TokenLifetime {
		p.Next()

		return &Lifetime{Name: tok.Text, Pos: tok.Pos}, nil
	}

	return p.ParsePath(false)
}

func (p *Parser) parseRefType() (Type, error) {
	tok := p.Next()

	ref := &RefType{Pos: tok.Pos}

	if lt := p.Peek(); lt.Kind == TokenLifetime {
		p.Next()

		ref.Lifetime = lt.Text
	}

	if p.Peek().IsKeyword("mut") {
		p.Next()

		ref.Mut = true
	}

	elem, err := p.ParseType()
	if err != nil {
		return nil, err
	}

	ref.Elem = elem

	return ref, nil
}

func (p *Parser) parseTupleType() (Type, error) {
	pos := p.Next().Pos

	elems := []Type{}
	trailing := false

	for !p.Peek().IsPunct(')') {
		t, err := p.ParseType()
		if err != nil {
			return nil, err
		}

		elems = append(elems, t)

		trailing = p.EatOp(",")
		if !trailing {
			break
		}
	}

	err := p.ExpectOp(")")
	if err != nil {
		return nil, err
	}

	if len(elems) == 1 && !trailing {
		return elems[0], nil
	}

	return &TupleType{Elems: elems, Pos: pos}, nil
}

func (p *Parser) parseSliceType() (Type, error) {
	pos := p.Next().Pos

	elem, err := p.ParseType()
	if err != nil {
		return nil, err
	}

	if p.EatOp(";") {
		n, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}

		err = p.ExpectOp("]")
		if err != nil {
			return nil, err
		}

		return &ArrayType{Elem: elem, Len: n, Pos: pos}, nil
	}

	err = p.ExpectOp("]")
	if err != nil {
		return nil, err
	}

	return &SliceType{Elem: elem, Pos: pos}, nil
}
