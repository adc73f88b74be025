package lang

import (
	"log/slog"
	"strconv"
)

// Kind identifies the runtime kind of a [Value]. KindAny never tags a
// concrete value; it appears only in function signatures, where it
// matches every kind.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	KindAny
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"

	case KindNumber:
		return "Number"

	case KindString:
		return "String"

	case KindBool:
		return "Bool"

	case KindAny:
		return "Any"

	default:
		return "Unknown"
	}
}

// Value is a runtime value: a number, a string, a boolean, or null.
// The zero value is null. Values are immutable.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Number returns a numeric value.
func Number(num float64) Value {
	return Value{kind: KindNumber, num: num}
}

// String returns a string value.
func String(str string) Value {
	return Value{kind: KindString, str: str}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the value's runtime kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Num returns the numeric content, or 0 for non-numbers.
func (v Value) Num() float64 {
	return v.num
}

// Str returns the string content, or "" for non-strings.
func (v Value) Str() string {
	return v.str
}

// Bool returns the boolean content, or false for non-booleans.
func (v Value) Bool() bool {
	return v.b
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String renders the value as the print built-in function displays it:
// numbers in shortest decimal form, booleans as "true" or "false",
// strings verbatim without quotes, and null as "null".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)

	case KindString:
		return v.str

	case KindBool:
		return strconv.FormatBool(v.b)

	default:
		return "null"
	}
}

// LogValue implements [slog.LogValuer] for structured logging.
func (v Value) LogValue() slog.Value {
	switch v.kind {
	case KindNumber:
		return slog.Float64Value(v.num)

	case KindString:
		return slog.StringValue(v.str)

	case KindBool:
		return slog.BoolValue(v.b)

	default:
		return slog.AnyValue(nil)
	}
}

// formatNumber renders a float in its shortest decimal form without
// an exponent, matching the display rules of print and toString.
func formatNumber(num float64) string {
	return strconv.FormatFloat(num, 'f', -1, 64)
}
