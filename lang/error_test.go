package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestError_TaxonomyIs(t *testing.T) {
	sentinels := []*Error{ErrLex, ErrParse, ErrName, ErrArity, ErrType, ErrArithmetic}

	for _, sentinel := range sentinels {
		derived := sentinel.
			Wrap(fmt.Errorf("something specific")).
			With(slog.String("extra", "attr")).
			WithPosition(Position{Offset: 3, Line: 1, Column: 4})

		if !errors.Is(derived, sentinel) {
			t.Errorf("derived error lost its class %v", sentinel)
		}

		// Classes are disjoint.
		for _, other := range sentinels {
			if other == sentinel {
				continue
			}

			if errors.Is(derived, other) {
				t.Errorf("%v matched foreign class %v", derived, other)
			}
		}
	}
}

func TestError_GenericMatchesByIdentity(t *testing.T) {
	generic := NewError("custom failure")

	if !errors.Is(generic, generic) {
		t.Error("expected identity match")
	}

	if errors.Is(generic, NewError("custom failure")) {
		t.Error("expected distinct generic errors not to match")
	}

	if errors.Is(generic, ErrType) {
		t.Error("expected generic error not to match a class")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "message only",
			err:  NewError("broke"),
			want: "broke",
		},
		{
			name: "message and cause",
			err:  NewError("broke").Wrap(errors.New("badly")),
			want: "broke: badly",
		},
		{
			name: "position prefixes",
			err: ErrType.
				Wrap(errors.New("bad operand")).
				WithPosition(Position{Offset: 9, Line: 2, Column: 7}),
			want: "2:7: type error: bad operand",
		},
		{
			name: "wrapped foreign error",
			err:  WrapError(errors.New("plain")),
			want: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestError_WrapErrorPassthrough(t *testing.T) {
	original := ErrName.Wrap(errors.New("who"))

	if WrapError(original) != original {
		t.Error("expected WrapError to return an existing *Error unchanged")
	}

	if WrapError(fmt.Errorf("outer: %w", original)) != original {
		t.Error("expected WrapError to unwrap to the inner *Error")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrParse.Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("expected the cause to remain reachable through Unwrap")
	}
}

func TestError_Immutability(t *testing.T) {
	base := ErrType.Wrap(errors.New("original"))

	located := base.WithPosition(Position{Offset: 0, Line: 3, Column: 1})
	if _, ok := base.Position(); ok {
		t.Error("expected WithPosition to leave the receiver untouched")
	}

	annotated := base.With(slog.String("k", "v"))
	if annotated == base {
		t.Error("expected With to build a new error")
	}

	if !errors.Is(located, ErrType) || !errors.Is(annotated, ErrType) {
		t.Error("expected derived errors to keep their class")
	}
}

func TestDetail(t *testing.T) {
	source := []byte("let x = 1;\nlet y = x / 0;\nprint(y);")

	err := ErrArithmetic.
		Wrap(errors.New("division by zero")).
		WithPosition(Position{Offset: 21, Line: 2, Column: 11})

	got := Detail(err, source)

	// The caret sits under column 11 of the quoted line: six characters
	// of gutter ("  2 | ") plus ten of source text.
	want := "2:11: arithmetic error: division by zero\n" +
		"  2 | let y = x / 0;\n" +
		strings.Repeat(" ", 16) + "^"

	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestDetail_WithoutPosition(t *testing.T) {
	err := NewError("no location")

	if got := Detail(err, []byte("anything")); got != "no location" {
		t.Errorf("expected plain message, got %q", got)
	}

	plain := errors.New("not ours")
	if got := Detail(plain, nil); got != "not ours" {
		t.Errorf("expected foreign error text, got %q", got)
	}
}

func TestDetail_PositionPastSource(t *testing.T) {
	err := ErrParse.
		Wrap(errors.New("ran off the end")).
		WithPosition(Position{Offset: 99, Line: 9, Column: 1})

	got := Detail(err, []byte("one line"))
	if strings.Contains(got, "|") {
		t.Errorf("expected no snippet for an out-of-range line, got %q", got)
	}
}
