package lang

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Signature declares the parameters a registered function accepts.
//
// An exact signature requires precisely len(Params) arguments.
// A variadic signature requires at least len(Params) arguments, and
// every extra argument is checked against the last declared kind;
// variadic with no declared parameters accepts anything.
type Signature struct {
	Params   []Kind
	Variadic bool
}

// Exactly builds a signature requiring precisely the given kinds.
func Exactly(kinds ...Kind) Signature {
	return Signature{Params: kinds, Variadic: false}
}

// AtLeast builds a variadic signature requiring at least the given
// kinds, with extras checked against the last kind.
func AtLeast(kinds ...Kind) Signature {
	return Signature{Params: kinds, Variadic: true}
}

// String renders the signature's parameter list, e.g. "(String, Number...)".
func (s Signature) String() string {
	var buf strings.Builder

	buf.WriteString("(")

	for i, kind := range s.Params {
		if i > 0 {
			buf.WriteString(", ")
		}

		buf.WriteString(kind.String())
	}

	if s.Variadic {
		buf.WriteString("...")
	}

	buf.WriteString(")")

	return buf.String()
}

// check validates args of the named function against the signature,
// returning ErrArity on a count mismatch and ErrType on a kind
// mismatch. A KindAny parameter matches every kind, including null.
func (s Signature) check(name string, vals []Value) error {
	switch {
	case s.Variadic && len(vals) < len(s.Params):
		return ErrArity.
			Wrap(fmt.Errorf("function %q expects at least %d arguments, got %d",
				name, len(s.Params), len(vals)))

	case !s.Variadic && len(vals) != len(s.Params):
		return ErrArity.
			Wrap(fmt.Errorf("function %q expects %d arguments, got %d",
				name, len(s.Params), len(vals)))
	}

	for i, val := range vals {
		want := KindAny
		if i < len(s.Params) {
			want = s.Params[i]
		} else if len(s.Params) > 0 {
			want = s.Params[len(s.Params)-1]
		}

		if want == KindAny || val.Kind() == want {
			continue
		}

		return ErrType.
			Wrap(fmt.Errorf("argument %d of function %q expected %s, got %s",
				i, name, want, val.Kind()))
	}

	return nil
}

// NativeFunc is the host-side implementation of a registered function.
// It receives arguments already validated against the declared
// signature and returns the call's result value.
type NativeFunc func(ctx context.Context, args Args) (Value, error)

// Func is a named function registered with a [Registry].
type Func struct {
	Name string
	Sig  Signature
	Impl NativeFunc
}

// Args is a read-only view of the evaluated arguments of one call.
// The typed accessors re-check presence and kind so implementations of
// variadic or KindAny parameters can extract safely.
type Args struct {
	name string
	vals []Value
}

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a.vals)
}

// Has reports whether an argument exists at position i.
func (a Args) Has(i int) bool {
	return i >= 0 && i < len(a.vals)
}

// Any returns the argument at position i of whatever kind.
// A missing position is an ErrArity.
func (a Args) Any(i int) (Value, error) {
	if !a.Has(i) {
		return Null(), a.missing(i)
	}

	return a.vals[i], nil
}

// Number returns the numeric argument at position i.
// A missing position is an ErrArity; a non-number is an ErrType.
func (a Args) Number(i int) (float64, error) {
	if !a.Has(i) {
		return 0, a.missing(i)
	}

	if a.vals[i].Kind() != KindNumber {
		return 0, a.mistyped(i, KindNumber)
	}

	return a.vals[i].Num(), nil
}

// String returns the string argument at position i.
// A missing position is an ErrArity; a non-string is an ErrType.
func (a Args) String(i int) (string, error) {
	if !a.Has(i) {
		return "", a.missing(i)
	}

	if a.vals[i].Kind() != KindString {
		return "", a.mistyped(i, KindString)
	}

	return a.vals[i].Str(), nil
}

// Bool returns the boolean argument at position i.
// A missing position is an ErrArity; a non-boolean is an ErrType.
func (a Args) Bool(i int) (bool, error) {
	if !a.Has(i) {
		return false, a.missing(i)
	}

	if a.vals[i].Kind() != KindBool {
		return false, a.mistyped(i, KindBool)
	}

	return a.vals[i].Bool(), nil
}

func (a Args) missing(i int) error {
	return ErrArity.
		Wrap(fmt.Errorf("function %q missing argument at position %d", a.name, i))
}

func (a Args) mistyped(i int, want Kind) error {
	return ErrType.
		Wrap(fmt.Errorf("function %q expected argument at position %d to be a %s",
			a.name, i, want))
}

// Registry maps function names to their implementations. Registration
// happens before evaluation begins; lookups during evaluation are
// read-only, so a populated Registry is safe to share.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]Func{}}
}

// Register adds a named function. Registering a name twice is an
// ErrName: established bindings never change underneath scripts.
func (r *Registry) Register(name string, sig Signature, impl NativeFunc) error {
	if _, ok := r.funcs[name]; ok {
		return ErrName.
			Wrap(fmt.Errorf("function %q already registered", name))
	}

	r.funcs[name] = Func{Name: name, Sig: sig, Impl: impl}

	return nil
}

// Lookup returns the named function and whether it exists.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]

	return fn, ok
}

// Names returns every registered function name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.funcs)
}

// Call invokes the named function with the given argument values after
// validating them against its signature. An unknown name is an
// ErrName; count and kind mismatches are ErrArity and ErrType.
func (r *Registry) Call(ctx context.Context, name string, vals []Value) (Value, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return Null(), ErrName.
			Wrap(fmt.Errorf("function %q does not exist", name))
	}

	if err := fn.Sig.check(name, vals); err != nil {
		return Null(), err
	}

	return fn.Impl(ctx, Args{name: name, vals: vals})
}
