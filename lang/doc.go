// Package lang implements the host expression language that pipelines are
// written in and compiled to: a Rust-like expression subset.
//
// # Tokens
//
// [Lex] produces identifiers, lifetimes, literals and punctuation.
// Punctuation is one character per token, with [Token.Joint] set when the
// next character is also operator punctuation. Multi-character operators
// such as "=>", "::" and "..." are recognized by the [Parser] from runs of
// joint tokens, which lets embedding grammars treat "=>" as a separator and
// "..." as three dots.
//
// # Grammar
//
// Informal EBNF:
//
//	Expr     → Closure | Assign
//	Assign   → Binary (AssignOp Expr)?
//	Binary   → Unary (BinOp Unary | 'as' Type)*
//	Unary    → ('-' | '!' | '*' | '&' 'mut'?) Unary | Postfix
//	Postfix  → Primary ( '(' Args ')' | '.' Member | '[' Expr ']' | '?' )*
//	Primary  → Literal | Path | Macro | '(' ')' | '(' Expr ')' | Tuple
//	         | Array | Block
//	Closure  → 'move'? '|' Params '|' ('->' Type Block | Expr)
//	Block    → '{' (Let | Expr ';')* Expr? '}'
//	Type     → Path | '&' Lifetime? 'mut'? Type | '(' Types ')' | '[' Type ']'
//	         | '[' Type ';' Expr ']' | '_' | ('dyn' | 'impl') Bounds
//
// Control flow (if, match, loops), struct literals and ranges are rejected
// with a syntax error.
//
// # Rendering
//
// [String] and [Format] print a tree back to source, inserting only the
// parentheses that operator precedence requires.
//
//	x, _ := lang.ParseExpr("(a + b).len()")
//	lang.String(x) // "(a + b).len()"
//
// # Errors
//
// Failures are reported as [*Diagnostic] values that match [ErrSyntax] or
// [ErrGenerate] and can render the offending source line with
// [Diagnostic.Snippet].
package lang
