package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeSource creates a file named name in dir containing content and returns
// its path.
func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// readSources opens names and returns the name and content of each source in
// the order they are yielded.
func readSources(t *testing.T, ctx context.Context, names ...string) [][2]string {
	t.Helper()

	srcs, errs := openSources(ctx, names)
	defer srcs.Close()

	if err := errs.Err(); err != nil {
		t.Fatalf("openSources(%q) error: %v", names, err)
	}

	var got [][2]string

	for name, r := range srcs.All() {
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}

		got = append(got, [2]string{name, string(data)})
	}

	return got
}

// TestOpenSourcesEmpty tests that no names reads stdin.
func TestOpenSourcesEmpty(t *testing.T) {
	ctx := WithStreams(context.Background(), strings.NewReader("x => f"), nil, nil)

	got := readSources(t, ctx)

	want := [][2]string{{stdinSource, "x => f"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

// TestOpenSourcesDuplicatePaths tests deduplication of identical, relative,
// and symlinked paths to one file.
func TestOpenSourcesDuplicatePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.pipe", "a => f")

	link := filepath.Join(dir, "link.pipe")
	if err := os.Symlink(path, link); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	got := readSources(t, context.Background(), path, "a.pipe", link, path)

	want := [][2]string{{path, "a => f"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

// TestOpenSourcesStdinLast tests that stdin is yielded once, after all files.
func TestOpenSourcesStdinLast(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.pipe", "a => f")
	b := writeSource(t, dir, "b.pipe", "b => g")

	ctx := WithStreams(context.Background(), strings.NewReader("c => h"), nil, nil)

	got := readSources(t, ctx, "-", a, "-", b)

	want := [][2]string{
		{a, "a => f"},
		{b, "b => g"},
		{stdinSource, "c => h"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

// TestOpenSourcesNonexistent tests that every missing file is reported and
// the remaining files are still opened.
func TestOpenSourcesNonexistent(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.pipe", "a => f")

	srcs, errs := openSources(context.Background(), []string{
		filepath.Join(dir, "missing1.pipe"),
		a,
		filepath.Join(dir, "missing2.pipe"),
	})
	defer srcs.Close()

	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}

	for _, err := range errs {
		if !errors.Is(err, ErrOpenSource) {
			t.Errorf("error %v is not %v", err, ErrOpenSource)
		}
	}

	if srcs.IsZero() {
		t.Fatal("existing source was not opened")
	}

	for name := range srcs.All() {
		if name != a {
			t.Errorf("unexpected source %q", name)
		}
	}
}

// TestLookup tests resolution of relative names against the search path.
func TestLookup(t *testing.T) {
	work := t.TempDir()
	first := t.TempDir()
	second := t.TempDir()

	writeSource(t, work, "local.pipe", "")
	writeSource(t, second, "shared.pipe", "")
	writeSource(t, second, "local.pipe", "")

	abs := filepath.Join(second, "absent.pipe")

	t.Chdir(work)

	ctx := WithSearchPath(context.Background(), []string{first, second})

	tests := []struct {
		name string
		want string
	}{
		{"-", "-"},
		{"local.pipe", "local.pipe"},
		{"shared.pipe", filepath.Join(second, "shared.pipe")},
		{"missing.pipe", "missing.pipe"},
		{abs, abs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lookup(ctx, tt.name); got != tt.want {
				t.Errorf("lookup(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

// TestOpenSourcesSearchPath tests that sources are found on the search path.
func TestOpenSourcesSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "p.pipe", "p => f")

	t.Chdir(t.TempDir())

	ctx := WithSearchPath(context.Background(), []string{dir})

	got := readSources(t, ctx, "p.pipe")

	want := [][2]string{{"p.pipe", "p => f"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}
