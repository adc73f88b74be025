package lang

import "strconv"

// Position identifies a location in source text.
type Position struct {
	Offset int // byte offset from the start of input
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns the position in "line:column" form.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	// TokenEOF is the sentinel appended after the last real token.
	TokenEOF TokenKind = iota

	// TokenIdent is an identifier (including the contextual keywords
	// "let" and "if", which the parser recognizes by text).
	TokenIdent

	// TokenNumber is a floating-point numeric literal.
	TokenNumber

	// TokenString is a quoted string literal (quotes stripped).
	TokenString

	// TokenBool is one of the literal spellings "true" or "false".
	TokenBool

	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenSemi     // ;
	TokenComma    // ,
	TokenAssign   // =
	TokenNotEqual // !=
	TokenNot      // !
	TokenPlus     // +
	TokenMinus    // -
	TokenStar     // *
	TokenSlash    // /
	TokenCaret    // ^
	TokenGreater  // >
	TokenLess     // <
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"

	case TokenIdent:
		return "identifier"

	case TokenNumber:
		return "number"

	case TokenString:
		return "string"

	case TokenBool:
		return "boolean"

	case TokenLParen:
		return "("

	case TokenRParen:
		return ")"

	case TokenLBrace:
		return "{"

	case TokenRBrace:
		return "}"

	case TokenLBracket:
		return "["

	case TokenRBracket:
		return "]"

	case TokenSemi:
		return ";"

	case TokenComma:
		return ","

	case TokenAssign:
		return "="

	case TokenNotEqual:
		return "!="

	case TokenNot:
		return "!"

	case TokenPlus:
		return "+"

	case TokenMinus:
		return "-"

	case TokenStar:
		return "*"

	case TokenSlash:
		return "/"

	case TokenCaret:
		return "^"

	case TokenGreater:
		return ">"

	case TokenLess:
		return "<"

	default:
		return "Unknown"
	}
}

// Token is the smallest lexical unit produced by scanning source text.
// Tokens are immutable once produced and are emitted in source order.
type Token struct {
	Kind TokenKind
	Text string  // original spelling (string content for TokenString)
	Num  float64 // parsed value (TokenNumber only)
	Pos  Position
}

// String returns the token's kind, with its text for valued kinds.
func (t Token) String() string {
	switch t.Kind {
	case TokenIdent, TokenNumber, TokenBool:
		return t.Kind.String() + "(" + t.Text + ")"

	case TokenString:
		return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")"

	default:
		return t.Kind.String()
	}
}
