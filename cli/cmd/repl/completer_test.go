package repl

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/skiff/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"after_power", "x ^ tw", 6, "tw", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		// Hyphen is the subtraction operator, never part of a name.
		{"minus_splits", "alpha-beta", 10, "beta", 6, 10},
		// Identifiers are purely alphabetic, so digits end a word.
		{"digit_ends_word", "abc2def", 7, "def", 4, 7},
		{"after_string_literal", `print("hi") + na`, 16, "na", 14, 16},
		{"after_semicolon", "let x = one; tw", 15, "tw", 13, 15},
		{"inside_if_block", "if x { pri", 10, "pri", 7, 10},
		{"empty_after_open_brace", "if x {", 6, "", 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestIsWordBoundary(t *testing.T) {
	for _, r := range "+-*/^<>(){}=,;.\"' \t0123456789" {
		if !isWordBoundary(r) {
			t.Errorf("isWordBoundary(%q) = false, want true", r)
		}
	}

	for _, r := range "abcXYZ" {
		if isWordBoundary(r) {
			t.Errorf("isWordBoundary(%q) = true, want false", r)
		}
	}
}

func TestEvalCandidates(t *testing.T) {
	it := lang.New(
		lang.WithStdin(strings.NewReader("")),
		lang.WithStdout(io.Discard),
	)

	if _, err := it.Run(context.Background(),
		[]byte("let alpha = 1; let beta = 2;"),
	); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	names := evalCandidates(it)

	if !slices.IsSorted(names) {
		t.Errorf("evalCandidates() not sorted: %v", names)
	}

	for _, want := range []string{
		"alpha", "beta", // session bindings
		"false", "if", "let", "true", // keywords
		"print", "substring", // registered functions
	} {
		if !slices.Contains(names, want) {
			t.Errorf("evalCandidates() missing %q", want)
		}
	}
}

func TestFormatPreview(t *testing.T) {
	long := strings.Repeat("x", 60)

	tests := []struct {
		name string
		val  lang.Value
		want string
	}{
		{"number", lang.Number(42), "42"},
		{"fraction", lang.Number(3.5), "3.5"},
		{"bool", lang.Bool(true), "true"},
		{"null", lang.Null(), "null"},
		{"string_quoted", lang.String("hi"), `"hi"`},
		{
			"long_string_truncated",
			lang.String(long),
			`"` + strings.Repeat("x", 36) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPreview(tt.val); got != tt.want {
				t.Errorf("formatPreview() = %q, want %q", got, tt.want)
			}
		})
	}
}
