package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// errKind classifies an Error within the runtime's error taxonomy.
// The zero value is a generic, unclassified error.
type errKind int

const (
	kindGeneric errKind = iota
	kindLex
	kindParse
	kindName
	kindArity
	kindType
	kindArithmetic
)

// Predefined errors (sentinel values), one per taxonomy class.
// Test membership with errors.Is: derived errors produced by Wrap,
// With, and WithPosition keep their class, so errors.Is(err, ErrType)
// holds for every type error no matter how it was annotated.
var (
	// ErrLex reports an unrecognized character, an unterminated string
	// literal, or a malformed numeric literal.
	ErrLex = classify(kindLex, "lex error")

	// ErrParse reports input that tokenizes but violates the grammar.
	ErrParse = classify(kindParse, "parse error")

	// ErrName reports resolution of an undefined name, assignment to an
	// undeclared name, or a duplicate declaration in the same scope.
	ErrName = classify(kindName, "name error")

	// ErrArity reports a function call with the wrong argument count.
	ErrArity = classify(kindArity, "arity error")

	// ErrType reports an operation applied to operand kinds it does not
	// support, or a function argument of the wrong kind.
	ErrType = classify(kindType, "type error")

	// ErrArithmetic reports an invalid numeric operation,
	// currently only division by zero.
	ErrArithmetic = classify(kindArithmetic, "arithmetic error")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	kind  errKind     // Taxonomy class (compared by Is)
	pos   Position    // Source position (zero when unknown)
	attrs []slog.Attr // Attributes for structured logging
}

func classify(kind errKind, msg string) *Error {
	return &Error{msg: msg, kind: kind}
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<pos>: <msg>: <err>" // position, base, and wrapped error set
	//   2. "<msg>: <err>"        // no position attached
	//   3. "<msg>"               // wrapped error is nil
	//   4. "<err>"               // base error message is empty
	//   5. ""                    // no fields are set
	part := make([]string, 0, 3)

	if e.pos.Line > 0 {
		part = append(part, e.pos.String())
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error of the same taxonomy class.
// Unclassified errors match only by identity.
func (e *Error) Is(target error) bool {
	t := &Error{}
	if !errors.As(target, &t) {
		return false
	}

	return t.kind != kindGeneric && t.kind == e.kind
}

// Position returns the attached source position and whether one is set.
func (e *Error) Position() (Position, bool) {
	return e.pos, e.pos.Line > 0
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos.Line > 0 {
		attrs = append(attrs, slog.String("pos", e.pos.String()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
// The result keeps the receiver's class, position, and attributes.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		kind:  e.kind,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		kind:  e.kind,
		pos:   e.pos,
		attrs: newAttrs,
	}
}

// WithPosition locates the error at pos.
// This creates a new Error instance to maintain immutability.
func (e *Error) WithPosition(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		kind:  e.kind,
		pos:   pos,
		attrs: e.attrs, // Share attrs
	}
}

// Detail renders err together with the offending source line and a
// caret marking the error's column. When err carries no position, or
// the position falls outside source, it returns err.Error().
func Detail(err error, source []byte) string {
	e := &Error{}
	if !errors.As(err, &e) {
		return err.Error()
	}

	pos, ok := e.Position()
	if !ok {
		return e.Error()
	}

	lines := strings.Split(string(source), "\n")
	if pos.Line > len(lines) {
		return e.Error()
	}

	var buf strings.Builder

	buf.WriteString(e.Error())
	buf.WriteRune('\n')

	// Print the line with line number
	line := lines[pos.Line-1]
	lineNum := strconv.Itoa(pos.Line)

	buf.WriteString("  ")
	buf.WriteString(lineNum)
	buf.WriteString(" | ")
	buf.WriteString(line)
	buf.WriteRune('\n')

	// Print marker pointing to the column
	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(lineNum)+5)

	// Add spaces to reach the error column
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	buf.WriteString(padding + "^")

	return buf.String()
}
