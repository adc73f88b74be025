package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// precedence returns an operator's binding strength; higher binds
// tighter. Formatting inserts parentheses wherever a child binds
// looser than its context, so formatted output re-parses to the
// original tree.
func precedence(op Operator) int {
	switch op {
	case OpGt, OpLt:
		return 1

	case OpAdd, OpSub:
		return 2

	case OpMul, OpDiv:
		return 3

	case OpPow:
		return 4

	default:
		return 0
	}
}

// Format writes the program in native syntax. With indent > 0 each
// statement ends on its own line and if bodies nest by indent spaces;
// otherwise the whole program renders on a single line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	var buf strings.Builder

	for i, stmt := range p.Stmts {
		if i > 0 {
			if indent > 0 {
				buf.WriteString("\n")
			} else {
				buf.WriteString(" ")
			}
		}

		formatStmt(&buf, stmt, indent, 0)
		buf.WriteString(";")
	}

	if _, err := fmt.Fprintln(w, buf.String()); err != nil {
		return WrapError(err)
	}

	return nil
}

func formatStmt(buf *strings.Builder, n Node, indent, depth int) {
	switch n := n.(type) {
	case *LetStmt:
		buf.WriteString("let ")
		buf.WriteString(n.Name)
		buf.WriteString(" = ")
		formatExpr(buf, n.Value, 0, false)

	case *AssignStmt:
		buf.WriteString(n.Name)
		buf.WriteString(" = ")
		formatExpr(buf, n.Value, 0, false)

	case *IfStmt:
		formatIf(buf, n, indent, depth)

	default:
		formatExpr(buf, n, 0, false)
	}
}

func formatIf(buf *strings.Builder, n *IfStmt, indent, depth int) {
	buf.WriteString("if ")
	formatExpr(buf, n.Cond, 0, false)
	buf.WriteString(" {")

	for _, stmt := range n.Body {
		if indent > 0 {
			buf.WriteString("\n")
			buf.WriteString(strings.Repeat(" ", (depth+1)*indent))
		} else {
			buf.WriteString(" ")
		}

		formatStmt(buf, stmt, indent, depth+1)
		buf.WriteString(";")
	}

	if indent > 0 {
		buf.WriteString("\n")
		buf.WriteString(strings.Repeat(" ", depth*indent))
	} else {
		buf.WriteString(" ")
	}

	buf.WriteString("}")
}

func formatExpr(buf *strings.Builder, n Node, parentPrec int, isRight bool) {
	switch n := n.(type) {
	case *NumberLit:
		buf.WriteString(formatNumber(n.Value))

	case *StringLit:
		buf.WriteString(quoteString(n.Value))

	case *BoolLit:
		buf.WriteString(strconv.FormatBool(n.Value))

	case *Ident:
		buf.WriteString(n.Name)

	case *CallExpr:
		buf.WriteString(n.Name)
		buf.WriteString("(")

		for i, arg := range n.Args {
			if i > 0 {
				buf.WriteString(", ")
			}

			// Arguments parse at sum precedence: group comparisons.
			formatExpr(buf, arg, 2, false)
		}

		buf.WriteString(")")

	case *UnaryExpr:
		buf.WriteString(n.Sign.String())
		// The operand of a sign is a primary: group anything looser.
		formatExpr(buf, n.X, 5, false)

	case *BinaryExpr:
		prec := precedence(n.Op)

		// Left association: a right child at equal precedence regroups
		// without parentheses.
		group := prec < parentPrec || (prec == parentPrec && isRight)

		if group {
			buf.WriteString("(")
		}

		formatExpr(buf, n.X, prec, false)
		buf.WriteString(" ")
		buf.WriteString(n.Op.String())
		buf.WriteString(" ")
		formatExpr(buf, n.Y, prec, true)

		if group {
			buf.WriteString(")")
		}
	}
}

// quoteString renders a string literal. The language has no escape
// sequences, so a string containing one quote character is delimited
// by the other; a string containing both cannot be written exactly
// and falls back to double quotes.
func quoteString(s string) string {
	if strings.Contains(s, `"`) && !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	return `"` + s + `"`
}

// ToMap converts the program to a tree of plain maps and slices for
// structured serialization.
func (p *Program) ToMap() map[string]any {
	stmts := make([]any, len(p.Stmts))
	for i, stmt := range p.Stmts {
		stmts[i] = nodeToMap(stmt)
	}

	return map[string]any{"statements": stmts}
}

func nodeToMap(n Node) map[string]any {
	switch n := n.(type) {
	case *NumberLit:
		return map[string]any{"node": "number", "value": n.Value, "pos": n.Pos.String()}

	case *StringLit:
		return map[string]any{"node": "string", "value": n.Value, "pos": n.Pos.String()}

	case *BoolLit:
		return map[string]any{"node": "bool", "value": n.Value, "pos": n.Pos.String()}

	case *Ident:
		return map[string]any{"node": "ident", "name": n.Name, "pos": n.Pos.String()}

	case *UnaryExpr:
		return map[string]any{
			"node": "unary",
			"op":   n.Sign.String(),
			"x":    nodeToMap(n.X),
			"pos":  n.Pos.String(),
		}

	case *BinaryExpr:
		return map[string]any{
			"node": "binary",
			"op":   n.Op.String(),
			"x":    nodeToMap(n.X),
			"y":    nodeToMap(n.Y),
			"pos":  n.Pos.String(),
		}

	case *CallExpr:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = nodeToMap(arg)
		}

		return map[string]any{"node": "call", "name": n.Name, "args": args, "pos": n.Pos.String()}

	case *LetStmt:
		return map[string]any{
			"node":  "let",
			"name":  n.Name,
			"value": nodeToMap(n.Value),
			"pos":   n.Pos.String(),
		}

	case *AssignStmt:
		return map[string]any{
			"node":  "assign",
			"name":  n.Name,
			"value": nodeToMap(n.Value),
			"pos":   n.Pos.String(),
		}

	case *IfStmt:
		body := make([]any, len(n.Body))
		for i, stmt := range n.Body {
			body[i] = nodeToMap(stmt)
		}

		return map[string]any{"node": "if", "cond": nodeToMap(n.Cond), "body": body, "pos": n.Pos.String()}

	default:
		return map[string]any{"node": fmt.Sprintf("%T", n)}
	}
}

// FormatJSON writes the program's syntax tree as JSON.
// Pretty-prints with the given indent when indent > 0.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p.ToMap())
	}

	if err != nil {
		return WrapError(err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return WrapError(err)
	}

	return nil
}

// FormatYAML writes the program's syntax tree as YAML.
// Uses block style with the given indent when indent > 0, flow style
// otherwise.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption

	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return WrapError(err)
	}

	if _, err := fmt.Fprint(w, string(data)); err != nil {
		return WrapError(err)
	}

	return nil
}

// FormatTokens writes one token per line as "line:col<TAB>token",
// including the trailing EOF token.
func FormatTokens(w io.Writer, toks []Token) error {
	var buf strings.Builder

	for _, tok := range toks {
		fmt.Fprintf(&buf, "%s\t%s\n", tok.Pos, tok)
	}

	if _, err := io.WriteString(w, buf.String()); err != nil {
		return WrapError(err)
	}

	return nil
}
