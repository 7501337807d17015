package lang

import "strconv"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF      TokenKind = iota // end of input
	TokenIdent                     // identifier
	TokenLifetime                  // lifetime
	TokenInt                       // integer literal
	TokenFloat                     // float literal
	TokenString                    // string literal
	TokenChar                      // character literal
	TokenPunct                     // punctuation
)

var tokenKindName = [...]string{
	TokenEOF:      "end of input",
	TokenIdent:    "identifier",
	TokenLifetime: "lifetime",
	TokenInt:      "integer literal",
	TokenFloat:    "float literal",
	TokenString:   "string literal",
	TokenChar:     "character literal",
	TokenPunct:    "punctuation",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindName) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}

	return tokenKindName[k]
}

// Position identifies a location in source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical unit.
//
// Punctuation is always one character per token. Joint reports whether the
// next character in the source is also operator punctuation with no
// whitespace between them, so that "=>" arrives as a joint '=' followed by
// '>'.
type Token struct {
	Text  string
	Pos   Position
	Kind  TokenKind
	Joint bool
}

// IsPunct reports whether t is the punctuation character ch.
func (t Token) IsPunct(ch byte) bool {
	return t.Kind == TokenPunct && len(t.Text) == 1 && t.Text[0] == ch
}

// IsKeyword reports whether t is the identifier kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == TokenIdent && t.Text == kw
}

// IsLiteral reports whether t is a literal of any kind.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case TokenInt, TokenFloat, TokenString, TokenChar:
		return true
	}

	return t.IsKeyword("true") || t.IsKeyword("false")
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}

	return "`" + t.Text + "`"
}

// keywords cannot start a path segment.
var keywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "dyn": true, "else": true, "enum": true, "extern": true,
	"false": true, "fn": true, "for": true, "if": true, "impl": true,
	"in": true, "let": true, "loop": true, "match": true, "mod": true,
	"move": true, "mut": true, "pub": true, "ref": true, "return": true,
	"static": true, "struct": true, "trait": true, "true": true, "type": true,
	"unsafe": true, "use": true, "where": true, "while": true, "yield": true,
}

// IsKeyword reports whether s is a reserved word of the host language.
func IsKeyword(s string) bool { return keywords[s] }
