package cmd

import (
	"context"
	"io"
	"os"
	"testing"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	os.Stdout = w

	done := make(chan string)

	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	fn()

	w.Close()

	os.Stdout = old

	return <-done
}

func TestEvalRun(t *testing.T) {
	tests := []struct {
		name    string
		exprs   []string
		want    string
		wantErr bool
	}{
		{"expression_result", []string{"1 + 2"}, "3\n", false},
		{"args_joined", []string{"1", "+", "2"}, "3\n", false},
		{"declaration_is_quiet", []string{"let x = 5;"}, "", false},
		{"final_statement_value", []string{"let x = 5; x * 2"}, "10\n", false},
		{"string_concat", []string{`"a" + "b"`}, "ab\n", false},
		{"comparison", []string{"2 > 1"}, "true\n", false},
		{"parse_error", []string{"let = 5;"}, "", true},
		{"type_error", []string{"1 + true"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalCmd := &Eval{Exprs: tt.exprs}

			var err error

			got := captureStdout(t, func() {
				err = evalCmd.Run(context.Background())
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("Eval.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("Eval.Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestEvalRunStdin tests that eval without arguments reads the script from
// stdin.
func TestEvalRunStdin(t *testing.T) {
	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	os.Stdin = r

	go func() {
		defer w.Close()
		io.WriteString(w, "let x = 2; x ^ 3")
	}()

	evalCmd := &Eval{}

	var runErr error

	got := captureStdout(t, func() {
		runErr = evalCmd.Run(context.Background())
	})

	if runErr != nil {
		t.Fatalf("Eval.Run() error = %v", runErr)
	}

	if got != "8\n" {
		t.Errorf("Eval.Run() output = %q, want %q", got, "8\n")
	}
}
