package profile

import "testing"

func zeroConfig() (string, string, bool) { return "", "", false }

func TestConfig_Options(t *testing.T) {
	var cfg Config = zeroConfig

	cfg = WithMode("cpu")(cfg)
	cfg = WithPath("/tmp/profiles")(cfg)
	cfg = WithQuiet(true)(cfg)

	mode, path, quiet := cfg()
	if mode != "cpu" || path != "/tmp/profiles" || !quiet {
		t.Errorf("cfg() = (%q, %q, %v), want (cpu, /tmp/profiles, true)",
			mode, path, quiet)
	}
}

func TestConfig_OptionsPreserveUnsetFields(t *testing.T) {
	var cfg Config = zeroConfig

	cfg = WithMode("heap")(cfg)

	mode, path, quiet := cfg()
	if mode != "heap" {
		t.Errorf("mode = %q, want heap", mode)
	}

	if path != "" || quiet {
		t.Errorf("unset fields changed: path=%q quiet=%v", path, quiet)
	}

	// Replacing one field leaves the others intact.
	cfg = WithQuiet(true)(cfg)

	mode, path, quiet = cfg()
	if mode != "heap" || path != "" || !quiet {
		t.Errorf("cfg() = (%q, %q, %v), want (heap, \"\", true)",
			mode, path, quiet)
	}
}

func TestConfig_StartWithoutModeIsNoop(t *testing.T) {
	var cfg Config = zeroConfig

	ctrl := cfg.Start()
	if ctrl == nil {
		t.Fatal("Start() returned nil")
	}

	// Stop must always be safe to call.
	ctrl.Stop()
	ctrl.Stop()
}

func TestModes_Stable(t *testing.T) {
	first := Modes()
	second := Modes()

	if len(first) != len(second) {
		t.Fatalf("Modes() unstable: %d then %d entries", len(first), len(second))
	}

	for _, m := range first {
		if m == "quiet" {
			t.Error("Modes() must not list the quiet pseudo-mode")
		}
	}
}
