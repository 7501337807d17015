package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lex splits src into tokens. The returned slice always ends with a token of
// kind [TokenEOF].
func Lex(src string) ([]Token, error) {
	l := &lexer{
		input: src,
		line:  1,
		col:   1,
	}

	for {
		err := l.skipWhitespaceAndComments()
		if err != nil {
			return nil, err
		}

		if l.eof() {
			break
		}

		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		l.tokens = append(l.tokens, tok)
	}

	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Pos: l.position()})

	return l.tokens, nil
}

// lexer holds the scanner state.
type lexer struct {
	input  string
	tokens []Token
	pos    int
	line   int
	col    int
}

func (l *lexer) next() (Token, error) {
	start := l.position()
	ch := l.peek()

	switch {
	case ch == 'r' && l.peekAt(1) == '#' && isIdentifierStart(l.peekAt(2)):
		l.advance()
		l.advance()
		l.skipIdentifier()

		return l.token(TokenIdent, start), nil

	case ch == 'r' && (l.peekAt(1) == '"' || l.peekAt(1) == '#'):
		l.advance()

		return l.lexRawString(start)

	case ch == 'b' && l.peekAt(1) == 'r' &&
		(l.peekAt(2) == '"' || l.peekAt(2) == '#'):
		l.advance()
		l.advance()

		return l.lexRawString(start)

	case ch == 'b' && l.peekAt(1) == '"':
		l.advance()

		return l.lexString(start)

	case ch == 'b' && l.peekAt(1) == '\'':
		l.advance()

		return l.lexChar(start)

	case isIdentifierStart(ch):
		l.skipIdentifier()

		return l.token(TokenIdent, start), nil

	case isDigit(ch):
		return l.lexNumber(start), nil

	case ch == '"':
		return l.lexString(start)

	case ch == '\'':
		return l.lexQuote(start)

	case isDelimiter(ch):
		l.advance()

		return l.token(TokenPunct, start), nil

	case isOperatorChar(ch):
		l.advance()

		tok := l.token(TokenPunct, start)
		tok.Joint = isOperatorChar(l.peek())

		return tok, nil
	}

	return Token{}, l.errorf(start, "unexpected character %q", ch)
}

func (l *lexer) token(kind TokenKind, start Position) Token {
	return Token{
		Kind: kind,
		Text: l.input[start.Offset:l.pos],
		Pos:  start,
	}
}

// lexNumber scans an integer or float literal with an optional suffix.
// A '.' continues the literal only when a digit follows it, and never when
// the literal itself follows a '.' (tuple index such as x.0.1).
func (l *lexer) lexNumber(start Position) Token {
	kind := TokenInt
	afterDot := len(l.tokens) > 0 && l.tokens[len(l.tokens)-1].IsPunct('.')

	if l.peek() == '0' && strings.ContainsRune("xob", l.peekAt(1)) {
		l.advance()
		l.advance()

		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	} else {
		l.skipDigits()

		if !afterDot && l.peek() == '.' && isDigit(l.peekAt(1)) {
			kind = TokenFloat

			l.advance()
			l.skipDigits()
		}

		if !afterDot && (l.peek() == 'e' || l.peek() == 'E') {
			sign := l.peekAt(1) == '+' || l.peekAt(1) == '-'
			if isDigit(l.peekAt(1)) || (sign && isDigit(l.peekAt(2))) {
				kind = TokenFloat

				l.advance()

				if sign {
					l.advance()
				}

				l.skipDigits()
			}
		}
	}

	if isIdentifierStart(l.peek()) {
		suffix := l.pos

		l.skipIdentifier()

		if s := l.input[suffix:l.pos]; s == "f32" || s == "f64" {
			kind = TokenFloat
		}
	}

	return l.token(kind, start)
}

func (l *lexer) lexString(start Position) (Token, error) {
	l.advance() // opening quote

	for !l.eof() {
		switch l.peek() {
		case '\\':
			l.advance()
			l.advance()

		case '"':
			l.advance()

			return l.token(TokenString, start), nil

		default:
			l.advance()
		}
	}

	return Token{}, l.errorf(start, "unterminated string literal")
}

// lexRawString scans r"..." or r#"..."# with any number of hashes. The
// cursor is on the first '#' or '"' after the prefix.
func (l *lexer) lexRawString(start Position) (Token, error) {
	hashes := 0
	for l.peek() == '#' {
		hashes++

		l.advance()
	}

	if l.peek() != '"' {
		return Token{}, l.errorf(start, "malformed raw string literal")
	}

	l.advance()

	closing := "\"" + strings.Repeat("#", hashes)

	for !l.eof() {
		if strings.HasPrefix(l.input[l.pos:], closing) {
			for range len(closing) {
				l.advance()
			}

			return l.token(TokenString, start), nil
		}

		l.advance()
	}

	return Token{}, l.errorf(start, "unterminated raw string literal")
}

// lexQuote distinguishes a character literal ('x', '\n') from a lifetime
// ('a, 'static).
func (l *lexer) lexQuote(start Position) (Token, error) {
	if l.peekAt(1) != '\\' && l.peekAt(2) != '\'' &&
		isIdentifierStart(l.peekAt(1)) {
		l.advance()
		l.skipIdentifier()

		return l.token(TokenLifetime, start), nil
	}

	return l.lexChar(start)
}

func (l *lexer) lexChar(start Position) (Token, error) {
	l.advance() // opening quote

	if l.peek() == '\\' {
		l.advance()
	}

	if l.eof() || l.peek() == '\n' {
		return Token{}, l.errorf(start, "unterminated character literal")
	}

	l.advance()

	for !l.eof() && l.peek() != '\n' {
		if l.peek() == '\'' {
			l.advance()

			return l.token(TokenChar, start), nil
		}

		l.advance()
	}

	return Token{}, l.errorf(start, "unterminated character literal")
}

func (l *lexer) skipIdentifier() {
	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}
}

func (l *lexer) skipDigits() {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *lexer) skipWhitespaceAndComments() error {
	for {
		for !l.eof() && unicode.IsSpace(l.peek()) {
			l.advance()
		}

		switch {
		case strings.HasPrefix(l.input[l.pos:], "//"):
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case strings.HasPrefix(l.input[l.pos:], "/*"):
			err := l.skipBlockComment()
			if err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// skipBlockComment consumes a block comment. Block comments nest.
func (l *lexer) skipBlockComment() error {
	start := l.position()
	depth := 0

	for !l.eof() {
		switch {
		case strings.HasPrefix(l.input[l.pos:], "/*"):
			depth++

			l.advance()
			l.advance()

		case strings.HasPrefix(l.input[l.pos:], "*/"):
			depth--

			l.advance()
			l.advance()

			if depth == 0 {
				return nil
			}

		default:
			l.advance()
		}
	}

	return l.errorf(start, "unterminated block comment")
}

func (l *lexer) errorf(pos Position, format string, args ...any) *Diagnostic {
	return Syntaxf(pos, format, args...).WithSource(l.input)
}

func (l *lexer) peek() rune { return l.peekAt(0) }

// peekAt returns the rune n runes ahead of the cursor, or 0 past the end.
func (l *lexer) peekAt(n int) rune {
	i := l.pos
	for ; n > 0 && i < len(l.input); n-- {
		_, size := utf8.DecodeRuneInString(l.input[i:])
		i += size
	}

	if i >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[i:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.In(r,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
	)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isDelimiter(r rune) bool { return strings.ContainsRune("()[]{}", r) }

func isOperatorChar(r rune) bool {
	return r != 0 && strings.ContainsRune("+-*/%^!&|=<>@.,;:#$?~", r)
}
