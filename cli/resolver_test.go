package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skiff/lang"
)

// loadConfig runs source through the resolver's configuration loader.
func loadConfig(t *testing.T, source string) kong.Resolver {
	t.Helper()

	loader := resolve(context.Background())

	resolver, err := loader(strings.NewReader(source))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	return resolver
}

// flagNamed builds the minimal kong.Flag carrying a resolvable name.
func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func TestResolve_HyphenStrippedLookup(t *testing.T) {
	lang.ClearCache()

	resolver := loadConfig(t, `
		let loglevel = "debug";
		let logformat = "text";
	`)

	// Flag names carry hyphens; config bindings cannot.
	val, err := resolver.Resolve(nil, nil, flagNamed("log-level"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "debug" {
		t.Errorf("expected log-level=debug, got %v", val)
	}

	val, err = resolver.Resolve(nil, nil, flagNamed("log-format"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "text" {
		t.Errorf("expected log-format=text, got %v", val)
	}
}

func TestResolve_ExactNameLookup(t *testing.T) {
	lang.ClearCache()

	resolver := loadConfig(t, `let watch = true;`)

	val, err := resolver.Resolve(nil, nil, flagNamed("watch"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "true" {
		t.Errorf("expected watch=true, got %v", val)
	}
}

func TestResolve_MissingBinding(t *testing.T) {
	lang.ClearCache()

	resolver := loadConfig(t, `let loglevel = "info";`)

	val, err := resolver.Resolve(nil, nil, flagNamed("log-format"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("expected nil for missing binding, got %v", val)
	}
}

func TestResolve_NullBindingsSkipped(t *testing.T) {
	lang.ClearCache()

	// toNumber on garbage yields null, which carries no flag value.
	resolver := loadConfig(t, `let indent = toNumber("nope");`)

	val, err := resolver.Resolve(nil, nil, flagNamed("indent"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("expected null binding to resolve nothing, got %v", val)
	}
}

func TestResolve_NumbersStringified(t *testing.T) {
	lang.ClearCache()

	resolver := loadConfig(t, `let indent = 2 + 2;`)

	val, err := resolver.Resolve(nil, nil, flagNamed("indent"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "4" {
		t.Errorf("expected indent=4, got %v", val)
	}
}

func TestResolve_ComputedBindings(t *testing.T) {
	lang.ClearCache()

	// The config file runs under the full language.
	resolver := loadConfig(t, `
		let verbose = true;
		let loglevel = "info";
		if verbose {
			loglevel = "debug";
		};
	`)

	val, err := resolver.Resolve(nil, nil, flagNamed("log-level"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "debug" {
		t.Errorf("expected computed log-level=debug, got %v", val)
	}
}

func TestResolve_ScriptErrorFailsLoad(t *testing.T) {
	lang.ClearCache()

	loader := resolve(context.Background())

	for _, tt := range []struct {
		name   string
		source string
	}{
		{"parse error", `let 1 = 2;`},
		{"runtime error", `let x = 1 / 0;`},
		{"undeclared name", `loglevel = "debug";`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader(strings.NewReader(tt.source))
			if err == nil {
				t.Error("expected configuration load to fail")
			}
		})
	}
}

func TestResolve_Validate(t *testing.T) {
	lang.ClearCache()

	resolver := loadConfig(t, `let loglevel = "warn";`)

	if err := resolver.Validate(nil); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestResolve_ReadError(t *testing.T) {
	lang.ClearCache()

	loader := resolve(context.Background())

	if _, err := loader(&errorReader{}); err == nil {
		t.Error("expected read error to fail the load")
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct{}

func (e *errorReader) Read([]byte) (int, error) {
	return 0, bytes.ErrTooLarge
}
