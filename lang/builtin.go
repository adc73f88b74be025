package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// installBuiltins registers the fixed built-in function set against
// the interpreter's registry. The registry is empty when this runs, so
// registration cannot collide.
//
// print, read, and random close over the interpreter: each Interp owns
// its output writer, input reader, and random source.
func installBuiltins(it *Interp) {
	builtins := []Func{
		{Name: "print", Sig: Exactly(KindAny), Impl: it.builtinPrint},
		{Name: "read", Sig: Exactly(), Impl: it.builtinRead},
		{Name: "random", Sig: Exactly(), Impl: it.builtinRandom},
		{Name: "toNumber", Sig: Exactly(KindString), Impl: builtinToNumber},
		{Name: "toString", Sig: Exactly(KindNumber), Impl: builtinToString},
		{Name: "substring", Sig: Exactly(KindString, KindNumber, KindNumber), Impl: builtinSubstring},
		{Name: "writeFile", Sig: Exactly(KindString, KindString), Impl: builtinWriteFile},
		{Name: "readFile", Sig: Exactly(KindString), Impl: builtinReadFile},
		{Name: "deleteFile", Sig: Exactly(KindString), Impl: builtinDeleteFile},
		{Name: "exists", Sig: Exactly(KindString), Impl: builtinExists},
	}

	for _, fn := range builtins {
		_ = it.reg.Register(fn.Name, fn.Sig, fn.Impl)
	}
}

// builtinPrint writes the argument's textual form and a newline to the
// interpreter's output.
func (it *Interp) builtinPrint(_ context.Context, args Args) (Value, error) {
	val, err := args.Any(0)
	if err != nil {
		return Null(), err
	}

	if _, err := fmt.Fprintln(it.stdout, val.String()); err != nil {
		return Null(), WrapError(err)
	}

	return Null(), nil
}

// builtinRead consumes one line from the interpreter's input and
// returns it without its trailing newline. Reaching end of input
// yields whatever was read, possibly the empty string.
func (it *Interp) builtinRead(_ context.Context, _ Args) (Value, error) {
	line, err := it.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Null(), WrapError(err)
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	return String(line), nil
}

// builtinRandom returns a number in [0, 1) from the interpreter's
// random source.
func (it *Interp) builtinRandom(_ context.Context, _ Args) (Value, error) {
	return Number(it.rand.Float64()), nil
}

// builtinToNumber parses its argument as a number, returning null
// when the argument does not parse. It never fails.
func builtinToNumber(_ context.Context, args Args) (Value, error) {
	str, err := args.String(0)
	if err != nil {
		return Null(), err
	}

	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return Null(), nil
	}

	return Number(num), nil
}

// builtinToString renders a number in its shortest decimal form.
func builtinToString(_ context.Context, args Args) (Value, error) {
	num, err := args.Number(0)
	if err != nil {
		return Null(), err
	}

	return String(formatNumber(num)), nil
}

// builtinSubstring slices a string by inclusive start and end byte
// indexes. Fractional indexes truncate toward zero; a range that
// falls outside the string is an ErrType.
func builtinSubstring(_ context.Context, args Args) (Value, error) {
	str, err := args.String(0)
	if err != nil {
		return Null(), err
	}

	start, err := args.Number(1)
	if err != nil {
		return Null(), err
	}

	end, err := args.Number(2)
	if err != nil {
		return Null(), err
	}

	i, iok := asIndex(start)
	j, jok := asIndex(end)

	if !iok || !jok || i < 0 || j < i || j >= len(str) {
		return Null(), ErrType.
			Wrap(fmt.Errorf("substring range [%s, %s] out of range for length %d",
				formatNumber(start), formatNumber(end), len(str)))
	}

	return String(str[i : j+1]), nil
}

// builtinWriteFile writes the second argument as the entire contents
// of the file named by the first, reporting success as a boolean.
func builtinWriteFile(_ context.Context, args Args) (Value, error) {
	path, err := args.String(0)
	if err != nil {
		return Null(), err
	}

	contents, err := args.String(1)
	if err != nil {
		return Null(), err
	}

	return Bool(os.WriteFile(path, []byte(contents), 0o644) == nil), nil
}

// builtinReadFile returns the named file's contents as a string, or
// null when the file cannot be read.
func builtinReadFile(_ context.Context, args Args) (Value, error) {
	path, err := args.String(0)
	if err != nil {
		return Null(), err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return Null(), nil
	}

	return String(string(contents)), nil
}

// builtinDeleteFile removes the named file, reporting success as a
// boolean.
func builtinDeleteFile(_ context.Context, args Args) (Value, error) {
	path, err := args.String(0)
	if err != nil {
		return Null(), err
	}

	return Bool(os.Remove(path) == nil), nil
}

// builtinExists reports whether the named path exists.
func builtinExists(_ context.Context, args Args) (Value, error) {
	path, err := args.String(0)
	if err != nil {
		return Null(), err
	}

	_, err = os.Stat(path)

	return Bool(err == nil), nil
}

// asIndex truncates a float toward zero, rejecting values with no
// integer form or too large to index with.
func asIndex(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	t := math.Trunc(f)
	if t > 1<<62 || t < -(1<<62) {
		return 0, false
	}

	return int(t), true
}
