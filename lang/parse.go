package lang

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/skiff/log"
)

// parser holds the state for building a syntax tree from tokens.
type parser struct {
	toks     []Token
	pos      int
	depth    int
	maxDepth int
	logger   log.Logger
}

// Parse converts source text into a [Program].
//
// Results are cached process-wide keyed by source content and parse
// options, so re-parsing identical input returns the same program;
// [WithoutCache] bypasses the cache for a single call.
//
// Parse returns [ErrLex] for invalid tokens and [ErrParse] for token
// streams that violate the grammar, each positioned at the offending
// source location.
func Parse(ctx context.Context, source []byte, opts ...Option) (*Program, error) {
	o := defaults().apply(opts...)

	if o.noCache {
		return parse(ctx, source, o)
	}

	return parseCached(ctx, source, o)
}

// parse tokenizes and parses source without consulting the cache.
func parse(ctx context.Context, source []byte, o options) (*Program, error) {
	toks, err := newScanner(source, o.logger).scan(ctx)
	if err != nil {
		return nil, err
	}

	p := &parser{
		toks:     toks,
		pos:      0,
		depth:    0,
		maxDepth: o.maxDepth,
		logger:   o.logger,
	}

	stmts, err := p.parseProgram(ctx)
	if err != nil {
		return nil, err
	}

	return &Program{Stmts: stmts, Source: bytes.Clone(source)}, nil
}

func (p *parser) parseProgram(ctx context.Context) ([]Node, error) {
	stmts := make([]Node, 0, len(p.toks)/4+1)

	for !p.eof() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		if err := p.terminate(); err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statements", len(stmts)),
	)

	return stmts, nil
}

// parseStatement dispatches on the leading token: the contextual
// keywords "let" and "if" introduce declarations and conditionals, an
// identifier followed by "=" introduces an assignment, and anything
// else parses as an expression statement.
func (p *parser) parseStatement() (Node, error) {
	cur := p.cur()

	switch {
	case cur.Kind == TokenIdent && cur.Text == "let":
		return p.parseLet()

	case cur.Kind == TokenIdent && cur.Text == "if":
		return p.parseIf()

	case cur.Kind == TokenIdent && p.peek().Kind == TokenAssign:
		return p.parseAssign()

	default:
		return p.parseComparison()
	}
}

func (p *parser) parseLet() (Node, error) {
	pos := p.position()
	p.advance() // let

	name := p.cur()
	if name.Kind != TokenIdent {
		return nil, ErrParse.
			Wrap(fmt.Errorf("expected identifier after %q, got %s", "let", name)).
			WithPosition(name.Pos)
	}

	p.advance()

	if !p.expect(TokenAssign) {
		return nil, ErrParse.
			Wrap(fmt.Errorf("expected %q in declaration of %q, got %s",
				"=", name.Text, p.cur())).
			WithPosition(p.position())
	}

	value, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	return &LetStmt{Name: name.Text, Value: value, Pos: pos}, nil
}

func (p *parser) parseAssign() (Node, error) {
	name := p.cur()
	p.advance()
	p.advance() // =

	value, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	return &AssignStmt{Name: name.Text, Value: value, Pos: name.Pos}, nil
}

func (p *parser) parseIf() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	pos := p.position()
	p.advance() // if

	cond, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	if !p.expect(TokenLBrace) {
		return nil, ErrParse.
			Wrap(fmt.Errorf("expected %q after condition, got %s", "{", p.cur())).
			WithPosition(p.position())
	}

	body := []Node{}

	for p.cur().Kind != TokenRBrace {
		if p.eof() {
			return nil, ErrParse.
				Wrap(fmt.Errorf("unterminated block: expected %q", "}")).
				WithPosition(p.position())
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		if err := p.terminate(); err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	p.advance() // }

	return &IfStmt{Cond: cond, Body: body, Pos: pos}, nil
}

// parseComparison parses the lowest-precedence level: > and <.
// All binary levels associate left.
func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	for {
		var op Operator

		switch p.cur().Kind {
		case TokenGreater:
			op = OpGt
		case TokenLess:
			op = OpLt
		default:
			return left, nil
		}

		pos := p.position()
		p.advance()

		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, X: left, Y: right, Pos: pos}
	}
}

func (p *parser) parseSum() (Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}

	for {
		var op Operator

		switch p.cur().Kind {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return left, nil
		}

		pos := p.position()
		p.advance()

		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, X: left, Y: right, Pos: pos}
	}
}

func (p *parser) parseProduct() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for {
		var op Operator

		switch p.cur().Kind {
		case TokenStar:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		default:
			return left, nil
		}

		pos := p.position()
		p.advance()

		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, X: left, Y: right, Pos: pos}
	}
}

func (p *parser) parsePower() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.cur().Kind == TokenCaret {
		pos := p.position()
		p.advance()

		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: OpPow, X: left, Y: right, Pos: pos}
	}

	return left, nil
}

func (p *parser) parsePrimary() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	cur := p.cur()

	switch cur.Kind {
	case TokenNumber:
		p.advance()

		return &NumberLit{Value: cur.Num, Pos: cur.Pos}, nil

	case TokenString:
		p.advance()

		return &StringLit{Value: cur.Text, Pos: cur.Pos}, nil

	case TokenBool:
		p.advance()

		return &BoolLit{Value: cur.Text == "true", Pos: cur.Pos}, nil

	case TokenIdent:
		p.advance()

		if p.cur().Kind == TokenLParen {
			return p.parseCall(cur)
		}

		return &Ident{Name: cur.Text, Pos: cur.Pos}, nil

	case TokenPlus, TokenMinus:
		p.advance()

		sign := OpAdd
		if cur.Kind == TokenMinus {
			sign = OpSub
		}

		x, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Sign: sign, X: x, Pos: cur.Pos}, nil

	case TokenLParen:
		p.advance()

		expr, err := p.parseComparison()
		if err != nil {
			return nil, err
		}

		if !p.expect(TokenRParen) {
			return nil, ErrParse.
				Wrap(fmt.Errorf("expected %q to close group, got %s", ")", p.cur())).
				WithPosition(p.position())
		}

		return expr, nil

	default:
		return nil, ErrParse.
			Wrap(fmt.Errorf("unexpected %s in expression", cur)).
			WithPosition(cur.Pos)
	}
}

// parseCall parses a call's argument list. The callee identifier has
// been consumed; the current token is the opening parenthesis.
// Arguments parse at sum precedence, so a comparison must be
// parenthesized to appear as an argument.
func (p *parser) parseCall(name Token) (Node, error) {
	p.advance() // (

	args := []Node{}

	if p.cur().Kind != TokenRParen {
		for {
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if !p.expect(TokenComma) {
				break
			}
		}
	}

	if !p.expect(TokenRParen) {
		return nil, ErrParse.
			Wrap(fmt.Errorf("expected %q to close arguments of %q, got %s",
				")", name.Text, p.cur())).
			WithPosition(p.position())
	}

	return &CallExpr{Name: name.Text, Args: args, Pos: name.Pos}, nil
}

// terminate consumes the mandatory semicolon ending every statement.
func (p *parser) terminate() error {
	if !p.expect(TokenSemi) {
		return ErrParse.
			Wrap(fmt.Errorf("expected %q after statement, got %s", ";", p.cur())).
			WithPosition(p.position())
	}

	return nil
}

// enter guards recursion depth; callers must pair it with leave.
func (p *parser) enter() error {
	p.depth++

	if p.depth > p.maxDepth {
		return ErrParse.
			Wrap(fmt.Errorf("expression nesting exceeds %d levels", p.maxDepth)).
			WithPosition(p.position())
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}

// cur returns the current token without consuming it.
// Past the end it returns the trailing EOF token.
func (p *parser) cur() Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos]
}

// peek returns the token after the current one.
func (p *parser) peek() Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos+1]
}

// advance consumes the current token.
func (p *parser) advance() {
	if p.pos < len(p.toks) {
		p.pos++
	}
}

// expect consumes the current token if it has the given kind.
func (p *parser) expect(kind TokenKind) bool {
	if p.cur().Kind != kind {
		return false
	}

	p.advance()

	return true
}

func (p *parser) eof() bool {
	return p.cur().Kind == TokenEOF
}

// position returns the current token's source position.
func (p *parser) position() Position {
	return p.cur().Pos
}
