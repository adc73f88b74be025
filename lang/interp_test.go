package lang

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestInterp_PrintProgram(t *testing.T) {
	var out bytes.Buffer

	it := New(WithStdout(&out), WithoutCache())

	val, err := it.Run(context.Background(), []byte(`
		let x = 10 + 5;
		let y = x * 2;
		y = 8;
		print("The result is " + y);
	`))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if out.String() != "The result is 8\n" {
		t.Errorf("expected %q, got %q", "The result is 8\n", out.String())
	}

	// The final statement is a print call, which evaluates to null.
	if !val.IsNull() {
		t.Errorf("expected null result, got %v", val)
	}
}

func TestInterp_Print(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "string prints verbatim", input: `print("hi");`, want: "hi\n"},
		{name: "whole number prints bare", input: `print(42);`, want: "42\n"},
		{name: "fractional number prints short", input: `print(2.5);`, want: "2.5\n"},
		{name: "boolean", input: `print(1 < 2);`, want: "true\n"},
		{name: "null prints as null", input: `print(toNumber("x"));`, want: "null\n"},
		{name: "each call its own line", input: `print(1); print(2);`, want: "1\n2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			it := New(WithStdout(&out), WithoutCache())

			if _, err := it.Run(context.Background(), []byte(tt.input)); err != nil {
				t.Fatalf("run error: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestInterp_Read(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		want  string
	}{
		{name: "line without newline", stdin: "hello", want: "hello\n"},
		{name: "newline stripped", stdin: "hello\n", want: "hello\n"},
		{name: "carriage return stripped", stdin: "hello\r\n", want: "hello\n"},
		{name: "empty input reads empty", stdin: "", want: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			it := New(
				WithStdin(strings.NewReader(tt.stdin)),
				WithStdout(&out),
				WithoutCache(),
			)

			if _, err := it.Run(context.Background(), []byte(`print(read());`)); err != nil {
				t.Fatalf("run error: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestInterp_ReadConsumesLines(t *testing.T) {
	var out bytes.Buffer

	it := New(
		WithStdin(strings.NewReader("first\nsecond\n")),
		WithStdout(&out),
		WithoutCache(),
	)

	_, err := it.Run(context.Background(),
		[]byte(`let a = read(); let b = read(); print(b + a);`))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if out.String() != "secondfirst\n" {
		t.Errorf("expected %q, got %q", "secondfirst\n", out.String())
	}
}

func TestInterp_RandomSeeded(t *testing.T) {
	source := []byte(`random();`)

	first := New(WithRandSeed(42), WithoutCache())
	second := New(WithRandSeed(42), WithoutCache())

	a, err := first.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	b, err := second.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !a.Equal(b) {
		t.Errorf("expected identical draws from one seed, got %v and %v", a, b)
	}

	if a.Num() < 0 || a.Num() >= 1 {
		t.Errorf("expected a draw in [0, 1), got %v", a.Num())
	}

	// Successive draws from one interpreter advance the sequence.
	c, err := first.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if a.Equal(c) {
		t.Error("expected the sequence to advance between draws")
	}
}

func TestInterp_Conversions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{name: "toNumber parses", input: `toNumber("3.5");`, want: Number(3.5)},
		{name: "toNumber negative", input: `toNumber("-2");`, want: Number(-2)},
		{name: "toNumber garbage is null", input: `toNumber("abc");`, want: Null()},
		{name: "toNumber empty is null", input: `toNumber("");`, want: Null()},
		{name: "toNumber trailing junk is null", input: `toNumber("1x");`, want: Null()},
		{name: "toString whole", input: `toString(8);`, want: String("8")},
		{name: "toString fractional", input: `toString(2.5);`, want: String("2.5")},
		{name: "roundtrip", input: `toNumber(toString(12.25));`, want: Number(12.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if !val.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, val)
			}
		})
	}
}

func TestInterp_Substring(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "inclusive range", input: `substring("hello", 1, 3);`, want: "ell"},
		{name: "single byte", input: `substring("hello", 0, 0);`, want: "h"},
		{name: "whole string", input: `substring("hello", 0, 4);`, want: "hello"},
		{name: "fractional truncates", input: `substring("hello", 1.9, 3.1);`, want: "ell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if !val.Equal(String(tt.want)) {
				t.Errorf("expected %q, got %v", tt.want, val)
			}
		})
	}
}

func TestInterp_SubstringOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "end past length", input: `substring("abc", 0, 3);`},
		{name: "negative start", input: `substring("abc", -1, 1);`},
		{name: "start after end", input: `substring("abc", 2, 1);`},
		{name: "empty string", input: `substring("", 0, 0);`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input)
			if !errors.Is(err, ErrType) {
				t.Errorf("expected ErrType, got %v", err)
			}
		})
	}
}

func TestInterp_FileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")

	var out bytes.Buffer

	it := New(WithStdout(&out), WithoutCache())

	program := `
		let path = "` + path + `";
		let ok = writeFile(path, "hi");
		if ok { print(readFile(path)); };
		print(exists(path));
		print(deleteFile(path));
		print(exists(path));
		print(readFile(path));
	`

	if _, err := it.Run(context.Background(), []byte(program)); err != nil {
		t.Fatalf("run error: %v", err)
	}

	want := "hi\ntrue\ntrue\nfalse\nnull\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestInterp_FileFailures(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "nested.txt")

	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{
			name:  "write into missing directory fails",
			input: `writeFile("` + missing + `", "x");`,
			want:  Bool(false),
		},
		{
			name:  "delete missing file fails",
			input: `deleteFile("` + missing + `");`,
			want:  Bool(false),
		},
		{
			name:  "missing file does not exist",
			input: `exists("` + missing + `");`,
			want:  Bool(false),
		},
		{
			name:  "read missing file is null",
			input: `readFile("` + missing + `");`,
			want:  Null(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if !val.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, val)
			}
		})
	}
}

func TestInterp_StatePersistsAcrossRuns(t *testing.T) {
	it := New(WithoutCache())

	if _, err := it.Run(context.Background(), []byte(`let x = 40;`)); err != nil {
		t.Fatalf("run error: %v", err)
	}

	val, err := it.Run(context.Background(), []byte(`x + 2;`))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !val.Equal(Number(42)) {
		t.Errorf("expected 42, got %v", val)
	}

	// Re-declaring in a later run still collides with the first.
	if _, err := it.Run(context.Background(), []byte(`let x = 1;`)); !errors.Is(err, ErrName) {
		t.Errorf("expected ErrName, got %v", err)
	}
}

func TestInterp_RegisterHostFunction(t *testing.T) {
	it := New(WithoutCache())

	err := it.Register("join", AtLeast(KindString, KindString),
		func(_ context.Context, args Args) (Value, error) {
			parts := make([]string, 0, args.Len())

			for i := range args.Len() {
				part, err := args.String(i)
				if err != nil {
					return Null(), err
				}

				parts = append(parts, part)
			}

			return String(strings.Join(parts, "/")), nil
		})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	val, err := it.Run(context.Background(), []byte(`join("a", "b", "c");`))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !val.Equal(String("a/b/c")) {
		t.Errorf("expected a/b/c, got %v", val)
	}

	// Variadic minimum applies to script calls.
	if _, err := it.Run(context.Background(), []byte(`join("a");`)); !errors.Is(err, ErrArity) {
		t.Errorf("expected ErrArity, got %v", err)
	}
}

func TestInterp_RegisterCollidesWithBuiltin(t *testing.T) {
	it := New()

	err := it.Register("print", Exactly(KindAny),
		func(_ context.Context, _ Args) (Value, error) {
			return Null(), nil
		})
	if !errors.Is(err, ErrName) {
		t.Errorf("expected ErrName, got %v", err)
	}
}

func TestInterp_RegisterAfterRun(t *testing.T) {
	it := New(WithoutCache())

	if _, err := it.Run(context.Background(), []byte(`1;`)); err != nil {
		t.Fatalf("run error: %v", err)
	}

	err := it.Register("late", Exactly(),
		func(_ context.Context, _ Args) (Value, error) {
			return Null(), nil
		})
	if err == nil {
		t.Error("expected registration after run to fail")
	}
}

func TestInterp_Globals(t *testing.T) {
	it := New(WithoutCache())

	_, err := it.Run(context.Background(),
		[]byte(`let port = 8080; let host = "localhost"; if true { let hidden = 1; };`))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	got := map[string]Value{}
	var order []string

	for name, val := range it.Globals() {
		got[name] = val
		order = append(order, name)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 globals, got %d: %v", len(got), order)
	}

	if order[0] != "host" || order[1] != "port" {
		t.Errorf("expected sorted iteration, got %v", order)
	}

	if !got["port"].Equal(Number(8080)) {
		t.Errorf("expected port 8080, got %v", got["port"])
	}

	val, ok := it.Global("host")
	if !ok || !val.Equal(String("localhost")) {
		t.Errorf("expected host binding, got %v (%v)", val, ok)
	}

	if _, ok := it.Global("hidden"); ok {
		t.Error("expected body-scoped binding to be invisible")
	}
}

func TestInterp_RunReader(t *testing.T) {
	it := New(WithoutCache())

	val, err := it.RunReader(context.Background(), strings.NewReader(`2 ^ 10;`))
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !val.Equal(Number(1024)) {
		t.Errorf("expected 1024, got %v", val)
	}
}

func TestInterp_Eval(t *testing.T) {
	prog, err := Parse(context.Background(), []byte(`let x = 2; x * 21;`), WithoutCache())
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	// The same program evaluates independently in separate interpreters.
	for range 2 {
		val, err := New().Eval(context.Background(), prog)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}

		if !val.Equal(Number(42)) {
			t.Errorf("expected 42, got %v", val)
		}
	}
}

func TestInterp_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer

	it := New(WithStdout(&out), WithoutCache())

	_, err := it.Run(ctx, []byte(`print(1); print(2);`))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if out.String() != "" {
		t.Errorf("expected no output after early cancellation, got %q", out.String())
	}
}

func TestInterp_EmptyProgram(t *testing.T) {
	val, err := run(t, ``)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !val.IsNull() {
		t.Errorf("expected null, got %v", val)
	}
}

func TestInterp_Registry(t *testing.T) {
	it := New()

	names := it.Registry().Names()
	want := []string{
		"deleteFile", "exists", "print", "random", "read",
		"readFile", "substring", "toNumber", "toString", "writeFile",
	}

	if len(names) != len(want) {
		t.Fatalf("expected %d built-ins, got %d: %v", len(want), len(names), names)
	}

	for i, name := range want {
		if names[i] != name {
			t.Errorf("name %d: expected %q, got %q", i, name, names[i])
		}
	}

	fn, ok := it.Registry().Lookup("substring")
	if !ok {
		t.Fatal("expected substring to be registered")
	}

	if fn.Sig.String() != "(String, Number, Number)" {
		t.Errorf("unexpected signature %s", fn.Sig)
	}
}
