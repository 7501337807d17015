package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initCLI is a small command line with the kinds of flags written by init.
type initCLI struct {
	Level    string   `default:"warn"`
	Pretty   bool     `default:"true" negatable:""`
	MaxDepth int      `default:"256"`
	Path     []string `name:"path"`
	Empty    string
	PprofDir string `default:"/tmp/pprof"`
	Secret   string `default:"hidden" hidden:""`
}

// initContext parses args against initCLI and returns a context for Init.
func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: content\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			err := (&Init{Force: tt.force}).Run(initContext(t, confPath))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Errorf("generated config is not valid YAML: %v\n%s", err, content)
			}

			if got["level"] != "warn" {
				t.Errorf("level = %v, want warn", got["level"])
			}
		})
	}
}

// TestInitBuildConfig tests the values and order of the generated entries.
func TestInitBuildConfig(t *testing.T) {
	t.Parallel()

	ctx := initContext(t, "unused",
		"--level=debug", "--no-pretty", "--max-depth=12", "--path=a", "--path=b")

	conf := (&Init{}).buildConfig(ctx)

	var keys []string
	for _, item := range conf {
		keys = append(keys, item.Key.(string))
	}

	// help, pprof-*, hidden, and empty flags are skipped.
	want := []string{"level", "pretty", "max-depth", "path"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	data, err := yaml.Marshal(conf)
	if err != nil {
		t.Fatal(err)
	}

	for _, line := range []string{"level: debug", "pretty: false", "max-depth: 12", "- a", "- b"} {
		if !bytes.Contains(data, []byte(line)) {
			t.Errorf("config missing %q:\n%s", line, data)
		}
	}
}

// TestInitWithInvalidPath tests init with an unwritable file path.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	confPath := filepath.Join(t.TempDir(), "missing", "config.yaml")

	err := (&Init{}).Run(initContext(t, confPath))
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want %v", err, ErrWriteConfig)
	}
}
