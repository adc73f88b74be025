package lang

import (
	"fmt"
	"iter"
	"slices"
)

// Env is one scope in a lexical scope chain. Declarations land in the
// receiver scope; assignment and resolution search outward through the
// parents. An Env is not safe for concurrent use.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv creates an empty root scope.
func NewEnv() *Env {
	return &Env{
		vars:   map[string]Value{},
		parent: nil,
	}
}

// Child creates an empty scope whose parent is the receiver.
func (e *Env) Child() *Env {
	return &Env{
		vars:   map[string]Value{},
		parent: e,
	}
}

// Declare binds a new name in this scope.
// Redeclaring a name already bound in this scope is an ErrName, even
// when the existing binding came from shadowing an outer scope.
func (e *Env) Declare(name string, value Value) error {
	if _, ok := e.vars[name]; ok {
		return ErrName.
			Wrap(fmt.Errorf("name %q already declared in this scope", name))
	}

	e.vars[name] = value

	return nil
}

// Assign rebinds the nearest existing declaration of name, searching
// from this scope outward. Assigning an undeclared name is an ErrName:
// assignment never creates bindings.
func (e *Env) Assign(name string, value Value) error {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.vars[name]; ok {
			scope.vars[name] = value

			return nil
		}
	}

	return ErrName.
		Wrap(fmt.Errorf("assignment to undeclared name %q", name))
}

// Resolve returns the value bound to name, searching from this scope
// outward. An unbound name is an ErrName.
func (e *Env) Resolve(name string) (Value, error) {
	for scope := e; scope != nil; scope = scope.parent {
		if value, ok := scope.vars[name]; ok {
			return value, nil
		}
	}

	return Null(), ErrName.
		Wrap(fmt.Errorf("undefined name %q", name))
}

// Names returns every name visible from this scope, sorted, with
// shadowed duplicates removed.
func (e *Env) Names() []string {
	seen := map[string]bool{}

	for scope := e; scope != nil; scope = scope.parent {
		for name := range scope.vars {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Bindings returns an iterator over this scope's own bindings in
// sorted name order. Parent scopes are not included.
func (e *Env) Bindings() iter.Seq2[string, Value] {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}

	slices.Sort(names)

	return func(yield func(string, Value) bool) {
		for _, name := range names {
			if !yield(name, e.vars[name]) {
				return
			}
		}
	}
}

// Len returns the number of bindings in this scope alone.
func (e *Env) Len() int {
	return len(e.vars)
}
