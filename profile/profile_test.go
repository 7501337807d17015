package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func empty() (string, string, bool) { return "", "", false }

func TestModes(t *testing.T) {
	got := Modes()
	if !slices.IsSorted(got) {
		t.Errorf("Modes() not sorted: %v", got)
	}

	for _, want := range []string{"cpu", "heap", "trace", "goroutine"} {
		if !slices.Contains(got, want) {
			t.Errorf("Modes() missing %q", want)
		}
	}

	if len(got) != len(modes) {
		t.Errorf("len(Modes()) = %d, want %d", len(got), len(modes))
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := Config(empty)
	cfg = WithMode("cpu")(cfg)
	cfg = WithPath("/tmp/p")(cfg)
	cfg = WithQuiet(true)(cfg)

	mode, path, quiet := cfg()
	if mode != "cpu" || path != "/tmp/p" || !quiet {
		t.Errorf("cfg() = (%q, %q, %v)", mode, path, quiet)
	}

	// Later options replace only their own field.
	mode, path, quiet = WithMode("heap")(cfg)()
	if mode != "heap" || path != "/tmp/p" || !quiet {
		t.Errorf("cfg() = (%q, %q, %v)", mode, path, quiet)
	}
}

func TestConfig_StartDisabled(t *testing.T) {
	for name, cfg := range map[string]Config{
		"nil":     nil,
		"empty":   empty,
		"unknown": WithMode("bogus")(empty),
	} {
		t.Run(name, func(t *testing.T) {
			p := cfg.Start()
			if _, ok := p.(ignore); !ok {
				t.Errorf("Start() = %T, want ignore", p)
			}

			p.Stop()
		})
	}
}

func TestConfig_StartGoroutine(t *testing.T) {
	dir := t.TempDir()

	cfg := WithQuiet(true)(WithPath(dir)(WithMode("goroutine")(empty)))
	cfg.Start().Stop()

	if _, err := os.Stat(filepath.Join(dir, "goroutine.pprof")); err != nil {
		t.Errorf("profile not written: %v", err)
	}
}
