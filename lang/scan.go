package lang

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/skiff/log"
)

// scanner holds the state for tokenizing source text.
type scanner struct {
	input  []byte
	pos    int
	line   int
	col    int
	logger log.Logger
}

// Tokenize converts source text into its token stream.
// The stream always ends with a single TokenEOF.
// It returns ErrLex when source contains an unrecognized character, an
// unterminated string literal, or a malformed numeric literal.
func Tokenize(ctx context.Context, source []byte) ([]Token, error) {
	s := newScanner(source, log.Default())

	return s.scan(ctx)
}

func newScanner(source []byte, logger log.Logger) *scanner {
	return &scanner{
		input:  source,
		pos:    0,
		line:   1,
		col:    1,
		logger: logger,
	}
}

func (s *scanner) scan(ctx context.Context) ([]Token, error) {
	toks := make([]Token, 0, len(s.input)/4+1)

	for {
		s.skipWhitespace()

		if s.eof() {
			toks = append(toks, Token{Kind: TokenEOF, Pos: s.position()})

			break
		}

		tok, err := s.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	s.logger.TraceContext(ctx, "scan complete",
		slog.Int("tokens", len(toks)),
		slog.Int("bytes", len(s.input)),
	)

	return toks, nil
}

// next scans the token beginning at the current position.
// The caller has already skipped leading whitespace.
func (s *scanner) next() (Token, error) {
	pos := s.position()
	ch := s.peek()

	switch {
	case isAlpha(ch):
		return s.scanWord(pos), nil

	case isDigit(ch) || (ch == '.' && isDigit(s.peekN(1))):
		return s.scanNumber(pos)

	case ch == '\'' || ch == '"':
		return s.scanString(pos)

	default:
		return s.scanOperator(pos)
	}
}

// scanWord consumes a maximal run of alphabetic characters.
// The literal spellings "true" and "false" become boolean tokens;
// every other word is an identifier.
func (s *scanner) scanWord(pos Position) Token {
	start := s.pos

	for !s.eof() && isAlpha(s.peek()) {
		s.advance()
	}

	text := string(s.input[start:s.pos])

	if text == "true" || text == "false" {
		return Token{Kind: TokenBool, Text: text, Pos: pos}
	}

	return Token{Kind: TokenIdent, Text: text, Pos: pos}
}

// scanNumber consumes a maximal run of digits containing at most one
// decimal point. A second decimal point inside the run is an ErrLex.
func (s *scanner) scanNumber(pos Position) (Token, error) {
	start := s.pos
	seenPoint := false

	for !s.eof() {
		ch := s.peek()

		if ch == '.' {
			if seenPoint {
				return Token{}, ErrLex.
					Wrap(fmt.Errorf("malformed number: second decimal point")).
					WithPosition(s.position())
			}

			seenPoint = true
			s.advance()

			continue
		}

		if !isDigit(ch) {
			break
		}

		s.advance()
	}

	text := string(s.input[start:s.pos])

	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, ErrLex.
			Wrap(fmt.Errorf("malformed number %q", text)).
			WithPosition(pos)
	}

	return Token{Kind: TokenNumber, Text: text, Num: num, Pos: pos}, nil
}

// scanString consumes a string literal delimited by matching single or
// double quotes. There are no escape sequences: every byte between the
// delimiters, including newlines, is literal content.
func (s *scanner) scanString(pos Position) (Token, error) {
	quote := s.peek()
	s.advance()

	start := s.pos

	for !s.eof() && s.peek() != quote {
		s.advance()
	}

	if s.eof() {
		return Token{}, ErrLex.
			Wrap(fmt.Errorf("unterminated string")).
			WithPosition(pos)
	}

	text := string(s.input[start:s.pos])
	s.advance() // closing quote

	return Token{Kind: TokenString, Text: text, Pos: pos}, nil
}

func (s *scanner) scanOperator(pos Position) (Token, error) {
	ch := s.peek()
	s.advance()

	var kind TokenKind

	switch ch {
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case '{':
		kind = TokenLBrace
	case '}':
		kind = TokenRBrace
	case '[':
		kind = TokenLBracket
	case ']':
		kind = TokenRBracket
	case ';':
		kind = TokenSemi
	case ',':
		kind = TokenComma
	case '=':
		kind = TokenAssign
	case '+':
		kind = TokenPlus
	case '-':
		kind = TokenMinus
	case '*':
		kind = TokenStar
	case '/':
		kind = TokenSlash
	case '^':
		kind = TokenCaret
	case '>':
		kind = TokenGreater
	case '<':
		kind = TokenLess
	case '!':
		if s.peek() == '=' {
			s.advance()

			kind = TokenNotEqual
		} else {
			kind = TokenNot
		}
	default:
		return Token{}, ErrLex.
			Wrap(fmt.Errorf("unrecognized character %q", ch)).
			WithPosition(pos)
	}

	return Token{Kind: kind, Pos: pos}, nil
}

// peek returns the rune at the current position without advancing.
func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

// peekN returns the rune n runes ahead of the current position.
func (s *scanner) peekN(n int) rune {
	pos := s.pos

	for range n {
		if pos >= len(s.input) {
			return 0
		}

		_, size := utf8.DecodeRune(s.input[pos:])
		pos += size
	}

	if pos >= len(s.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[pos:])

	return r
}

// advance consumes the current rune, tracking line and column.
func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])
	s.pos += size

	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *scanner) skipWhitespace() {
	for !s.eof() && unicode.IsSpace(s.peek()) {
		s.advance()
	}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) position() Position {
	return Position{Offset: s.pos, Line: s.line, Column: s.col}
}

// Character classification functions.

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
