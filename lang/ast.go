package lang

import "iter"

// Node is implemented by every syntax tree node.
type Node interface {
	// At returns the node's source position.
	At() Position
}

// Operator identifies a binary or unary operator by its symbol.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
	OpPow Operator = '^'
	OpGt  Operator = '>'
	OpLt  Operator = '<'
)

// String returns the operator's source symbol.
func (op Operator) String() string {
	return string(rune(op))
}

// NumberLit is a floating-point numeric literal.
type NumberLit struct {
	Value float64
	Pos   Position
}

// StringLit is a string literal.
type StringLit struct {
	Value string
	Pos   Position
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
	Pos   Position
}

// Ident is a reference to a declared name.
type Ident struct {
	Name string
	Pos  Position
}

// UnaryExpr is a sign applied to a primary expression.
// Sign is OpAdd or OpSub.
type UnaryExpr struct {
	Sign Operator
	X    Node
	Pos  Position
}

// BinaryExpr is an infix operation on two expressions.
type BinaryExpr struct {
	Op   Operator
	X, Y Node
	Pos  Position
}

// CallExpr is a call of a registered function.
type CallExpr struct {
	Name string
	Args []Node
	Pos  Position
}

// LetStmt declares a new name in the current scope.
type LetStmt struct {
	Name  string
	Value Node
	Pos   Position
}

// AssignStmt rebinds the nearest declaration of an existing name.
type AssignStmt struct {
	Name  string
	Value Node
	Pos   Position
}

// IfStmt conditionally evaluates its body in a child scope.
// There is no else clause.
type IfStmt struct {
	Cond Node
	Body []Node
	Pos  Position
}

func (n *NumberLit) At() Position  { return n.Pos }
func (n *StringLit) At() Position  { return n.Pos }
func (n *BoolLit) At() Position    { return n.Pos }
func (n *Ident) At() Position      { return n.Pos }
func (n *UnaryExpr) At() Position  { return n.Pos }
func (n *BinaryExpr) At() Position { return n.Pos }
func (n *CallExpr) At() Position   { return n.Pos }
func (n *LetStmt) At() Position    { return n.Pos }
func (n *AssignStmt) At() Position { return n.Pos }
func (n *IfStmt) At() Position     { return n.Pos }

// Program is the parsed form of a source text.
// A Program is immutable once parsed and safe to share across
// goroutines, each evaluating against its own interpreter.
type Program struct {
	Stmts  []Node
	Source []byte
}

// All returns an iterator over the program's top-level statements.
func (p *Program) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, stmt := range p.Stmts {
			if !yield(stmt) {
				return
			}
		}
	}
}

// Len returns the number of top-level statements.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.Stmts)
}
