package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ardnew/skiff/log"
)

// evalContext holds the state threaded through one evaluation.
// Entering an if body derives a child context over a child scope;
// registry and logger are shared down the chain.
type evalContext struct {
	env    *Env
	reg    *Registry
	logger log.Logger
}

// evalNode evaluates a single node. Statements that produce no value
// (declarations, assignments, and conditionals) evaluate to null.
func (ec *evalContext) evalNode(ctx context.Context, n Node) (Value, error) {
	switch n := n.(type) {
	case *NumberLit:
		return Number(n.Value), nil

	case *StringLit:
		return String(n.Value), nil

	case *BoolLit:
		return Bool(n.Value), nil

	case *Ident:
		val, err := ec.env.Resolve(n.Name)
		if err != nil {
			return Null(), positioned(err, n.Pos)
		}

		return val, nil

	case *UnaryExpr:
		return ec.evalUnary(ctx, n)

	case *BinaryExpr:
		return ec.evalBinary(ctx, n)

	case *CallExpr:
		return ec.evalCall(ctx, n)

	case *LetStmt:
		return ec.evalLet(ctx, n)

	case *AssignStmt:
		return ec.evalAssign(ctx, n)

	case *IfStmt:
		return ec.evalIf(ctx, n)

	default:
		return Null(), WrapError(fmt.Errorf("unhandled node type %T", n))
	}
}

func (ec *evalContext) evalLet(ctx context.Context, n *LetStmt) (Value, error) {
	val, err := ec.evalNode(ctx, n.Value)
	if err != nil {
		return Null(), err
	}

	if err := ec.env.Declare(n.Name, val); err != nil {
		return Null(), positioned(err, n.Pos)
	}

	return Null(), nil
}

func (ec *evalContext) evalAssign(ctx context.Context, n *AssignStmt) (Value, error) {
	val, err := ec.evalNode(ctx, n.Value)
	if err != nil {
		return Null(), err
	}

	if err := ec.env.Assign(n.Name, val); err != nil {
		return Null(), positioned(err, n.Pos)
	}

	return Null(), nil
}

// evalIf evaluates the condition, which must produce a Bool, and on
// true runs the body in a fresh child scope. Bindings declared in the
// body are discarded when it ends; assignments to outer names persist.
func (ec *evalContext) evalIf(ctx context.Context, n *IfStmt) (Value, error) {
	cond, err := ec.evalNode(ctx, n.Cond)
	if err != nil {
		return Null(), err
	}

	if cond.Kind() != KindBool {
		return Null(), ErrType.
			Wrap(fmt.Errorf("condition must be a Bool, got %s", cond.Kind())).
			WithPosition(n.Cond.At())
	}

	if !cond.Bool() {
		return Null(), nil
	}

	inner := &evalContext{
		env:    ec.env.Child(),
		reg:    ec.reg,
		logger: ec.logger,
	}

	for _, stmt := range n.Body {
		if _, err := inner.evalNode(ctx, stmt); err != nil {
			return Null(), err
		}
	}

	return Null(), nil
}

// evalCall evaluates arguments left to right, then dispatches through
// the registry, which validates arity and kinds before invoking.
func (ec *evalContext) evalCall(ctx context.Context, n *CallExpr) (Value, error) {
	vals := make([]Value, len(n.Args))

	for i, arg := range n.Args {
		val, err := ec.evalNode(ctx, arg)
		if err != nil {
			return Null(), err
		}

		vals[i] = val
	}

	ec.logger.TraceContext(ctx, "call",
		slog.String("func", n.Name),
		slog.Int("args", len(vals)),
	)

	val, err := ec.reg.Call(ctx, n.Name, vals)
	if err != nil {
		return Null(), positioned(err, n.Pos)
	}

	return val, nil
}

// evalUnary applies a sign by multiplying with ±1, so the sign
// operators inherit every multiply overload: +x is the identity on
// numbers and strings, while -x negates numbers and rejects strings
// through the negative repeat count.
func (ec *evalContext) evalUnary(ctx context.Context, n *UnaryExpr) (Value, error) {
	val, err := ec.evalNode(ctx, n.X)
	if err != nil {
		return Null(), err
	}

	factor := Number(1)
	if n.Sign == OpSub {
		factor = Number(-1)
	}

	return applyBinary(OpMul, val, factor, n.Pos)
}

func (ec *evalContext) evalBinary(ctx context.Context, n *BinaryExpr) (Value, error) {
	x, err := ec.evalNode(ctx, n.X)
	if err != nil {
		return Null(), err
	}

	y, err := ec.evalNode(ctx, n.Y)
	if err != nil {
		return Null(), err
	}

	return applyBinary(n.Op, x, y, n.Pos)
}

// applyBinary dispatches an operator over the operand kind pairs it
// supports. Unsupported pairs are an ErrType.
func applyBinary(op Operator, x, y Value, pos Position) (Value, error) {
	switch op {
	case OpAdd:
		return evalAdd(x, y, pos)

	case OpMul:
		return evalMul(x, y, pos)

	case OpSub, OpDiv, OpPow, OpGt, OpLt:
		return evalArith(op, x, y, pos)

	default:
		return Null(), undefinedOp(op, x, y, pos)
	}
}

// evalAdd adds numbers, concatenates strings, and for a mixed
// number/string pair renders the number in its display form and
// concatenates.
func evalAdd(x, y Value, pos Position) (Value, error) {
	switch {
	case x.Kind() == KindNumber && y.Kind() == KindNumber:
		return Number(x.Num() + y.Num()), nil

	case x.Kind() == KindString && y.Kind() == KindString:
		return String(x.Str() + y.Str()), nil

	case x.Kind() == KindNumber && y.Kind() == KindString:
		return String(formatNumber(x.Num()) + y.Str()), nil

	case x.Kind() == KindString && y.Kind() == KindNumber:
		return String(x.Str() + formatNumber(y.Num())), nil

	default:
		return Null(), undefinedOp(OpAdd, x, y, pos)
	}
}

// evalMul multiplies numbers; a string paired with a number in either
// order repeats the string.
func evalMul(x, y Value, pos Position) (Value, error) {
	switch {
	case x.Kind() == KindNumber && y.Kind() == KindNumber:
		return Number(x.Num() * y.Num()), nil

	case x.Kind() == KindString && y.Kind() == KindNumber:
		return repeatString(x.Str(), y.Num(), pos)

	case x.Kind() == KindNumber && y.Kind() == KindString:
		return repeatString(y.Str(), x.Num(), pos)

	default:
		return Null(), undefinedOp(OpMul, x, y, pos)
	}
}

// evalArith covers the operators defined only on number pairs.
// Division by an exact zero divisor is an ErrArithmetic; the
// comparisons produce Bool.
func evalArith(op Operator, x, y Value, pos Position) (Value, error) {
	if x.Kind() != KindNumber || y.Kind() != KindNumber {
		return Null(), undefinedOp(op, x, y, pos)
	}

	a, b := x.Num(), y.Num()

	switch op {
	case OpSub:
		return Number(a - b), nil

	case OpDiv:
		if b == 0 {
			return Null(), ErrArithmetic.
				Wrap(errors.New("division by zero")).
				WithPosition(pos)
		}

		return Number(a / b), nil

	case OpPow:
		return Number(math.Pow(a, b)), nil

	case OpGt:
		return Bool(a > b), nil

	case OpLt:
		return Bool(a < b), nil

	default:
		return Null(), undefinedOp(op, x, y, pos)
	}
}

// repeatString repeats s count times. The count truncates toward
// zero; negative and non-finite counts, and products too large to
// build, are an ErrType.
func repeatString(s string, count float64, pos Position) (Value, error) {
	if math.IsNaN(count) || math.IsInf(count, 0) {
		return Null(), ErrType.
			Wrap(fmt.Errorf("repeat count %s is not finite", formatNumber(count))).
			WithPosition(pos)
	}

	t := math.Trunc(count)

	if t < 0 {
		return Null(), ErrType.
			Wrap(fmt.Errorf("repeat count %s is negative", formatNumber(count))).
			WithPosition(pos)
	}

	if t > float64(1<<62) {
		return Null(), ErrType.
			Wrap(fmt.Errorf("repeat count %s is too large", formatNumber(count))).
			WithPosition(pos)
	}

	n := int(t)

	if n > 0 && len(s) > math.MaxInt/n {
		return Null(), ErrType.
			Wrap(fmt.Errorf("repeating %d bytes %d times overflows", len(s), n)).
			WithPosition(pos)
	}

	return String(strings.Repeat(s, n)), nil
}

func undefinedOp(op Operator, x, y Value, pos Position) error {
	return ErrType.
		Wrap(fmt.Errorf("operator %s is not defined for %s and %s",
			op, x.Kind(), y.Kind())).
		WithPosition(pos)
}

// positioned attaches pos to an Error that carries no position of its
// own. Errors that already know where they occurred keep their
// original position.
func positioned(err error, pos Position) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}

	if _, ok := e.Position(); ok {
		return err
	}

	return e.WithPosition(pos)
}
