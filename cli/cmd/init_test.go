package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skiff/lang"
)

// initContext builds a kong.Context for the given CLI struct and arguments,
// binding confPath as the configuration file variable.
func initContext(
	t *testing.T, cli any, confPath string, args []string,
) context.Context {
	t.Helper()

	parser, err := kong.New(cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), kctx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string)
		wantErr bool
	}{
		{
			name:    "create_new_config",
			force:   false,
			setup:   nil, // no pre-existing file
			wantErr: false,
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("let old = 1;"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: false,
		},
		{
			name:  "fail_without_force",
			force: false,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("let old = 1;"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.sk")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli struct {
				Verbose bool   `name:"verbose" help:"Enable verbose output"`
				Output  string `name:"output" help:"Output file"`
				Count   int    `name:"count" help:"Number of items"`
			}

			ctx := initContext(t, &cli, confPath,
				[]string{"--verbose", "--output=out.txt", "--count=5"})

			initCmd := &Init{Force: tt.force}

			err := initCmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !errors.Is(err, ErrFileExists) {
					t.Errorf("Init.Run() error = %v, want ErrFileExists", err)
				}

				return
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			// The generated file is an ordinary script.
			if _, err := lang.Parse(ctx, content); err != nil {
				t.Errorf("generated config does not parse: %v", err)
			}

			for _, want := range []string{
				"let verbose = true;",
				`let output = "out.txt";`,
				"let count = 5;",
			} {
				if !strings.Contains(string(content), want) {
					t.Errorf("generated config missing %q:\n%s", want, content)
				}
			}
		})
	}
}

// TestInitBuildProgram tests the flag-to-binding projection, including
// hyphen removal and the help flag exclusion.
func TestInitBuildProgram(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose  bool   `name:"verbose"`
		LogLevel string `name:"log-level" default:"info"`
		Count    int    `name:"count"`
	}

	ctx := initContext(t, &cli, "unused",
		[]string{"--verbose", "--log-level=debug", "--count=3"})

	initCmd := &Init{}
	prog := initCmd.buildProgram(ctx)

	if prog.Len() != 3 {
		t.Errorf("buildProgram() Len() = %d, want 3", prog.Len())
	}

	var buf bytes.Buffer
	if err := prog.Format(ctx, &buf, defaultConfigIndent); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	for _, want := range []string{
		"let verbose = true;",
		`let loglevel = "debug";`, // hyphens removed from the flag name
		"let count = 3;",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("buildProgram() output missing %q:\n%s", want, buf.String())
		}
	}

	if strings.Contains(buf.String(), "help") {
		t.Errorf("buildProgram() should not bind the help flag:\n%s", buf.String())
	}
}

// TestInitFlagNode tests the literal mapping for each flag value type.
func TestInitFlagNode(t *testing.T) {
	t.Parallel()

	var cli struct {
		Flag  bool     `name:"flag"`
		Name  string   `name:"name"`
		Empty string   `name:"empty"`
		Count int      `name:"count"`
		Ratio float64  `name:"ratio"`
		Items []string `name:"items"`
	}

	ctx := initContext(t, &cli, "unused", []string{
		"--flag", "--name=x", "--count=2", "--ratio=0.5",
		"--items=a", "--items=b",
	})

	tests := []struct {
		flagName string
		want     lang.Node // nil when the value has no literal form
	}{
		{"flag", &lang.BoolLit{Value: true}},
		{"name", &lang.StringLit{Value: "x"}},
		{"empty", nil},
		{"count", &lang.NumberLit{Value: 2}},
		{"ratio", &lang.NumberLit{Value: 0.5}},
		{"items", nil}, // the language has no aggregate literals
	}

	ktx := kongContextFrom(ctx)
	initCmd := &Init{}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			i := slices.IndexFunc(ktx.Model.Flags, func(f *kong.Flag) bool {
				return f.Name == tt.flagName
			})
			if i < 0 {
				t.Fatalf("flag %q not found in model", tt.flagName)
			}

			got := initCmd.flagNode(ctx, ktx.Model.Flags[i])

			switch want := tt.want.(type) {
			case nil:
				if got != nil {
					t.Errorf("flagNode(%q) = %#v, want nil", tt.flagName, got)
				}

			case *lang.BoolLit:
				node, ok := got.(*lang.BoolLit)
				if !ok || node.Value != want.Value {
					t.Errorf("flagNode(%q) = %#v, want %#v", tt.flagName, got, want)
				}

			case *lang.StringLit:
				node, ok := got.(*lang.StringLit)
				if !ok || node.Value != want.Value {
					t.Errorf("flagNode(%q) = %#v, want %#v", tt.flagName, got, want)
				}

			case *lang.NumberLit:
				node, ok := got.(*lang.NumberLit)
				if !ok || node.Value != want.Value {
					t.Errorf("flagNode(%q) = %#v, want %#v", tt.flagName, got, want)
				}
			}
		})
	}
}

// TestInitWithInvalidPath tests init with an unwritable file path.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	var cli struct{}

	ctx := initContext(t, &cli, "/nonexistent/directory/config.sk", nil)

	initCmd := &Init{Force: false}

	if err := initCmd.Run(ctx); err == nil {
		t.Error("Init.Run() expected error for invalid path, got nil")
	}
}
