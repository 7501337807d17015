package pipe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/ardnew/spipe/lang"
)

func TestExpandCached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	ctx := context.Background()

	first, err := ExpandCached(ctx, "x =># f")
	if err != nil {
		t.Fatalf("ExpandCached error: %v", err)
	}

	second, err := ExpandCached(ctx, "x =># f")
	if err != nil {
		t.Fatalf("ExpandCached error: %v", err)
	}

	if first != second || first != "{ let __var_1 = x; f(&__var_1); __var_1 }" {
		t.Errorf("cached expansions differ: %q, %q", first, second)
	}

	if n := CacheLen(); n != 1 {
		t.Errorf("cache has %d entries, want 1", n)
	}

	indented, err := ExpandCached(ctx, "x =># f", WithIndent(2))
	if err != nil {
		t.Fatalf("ExpandCached error: %v", err)
	}

	if indented == first {
		t.Error("options did not change the cache key")
	}

	if n := CacheLen(); n != 2 {
		t.Errorf("cache has %d entries, want 2", n)
	}

	ClearCache()

	if n := CacheLen(); n != 0 {
		t.Errorf("cache has %d entries after clear, want 0", n)
	}
}

func TestExpandCached_Errors(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := ExpandCached(context.Background(), "x =>")
		if !errors.Is(err, lang.ErrSyntax) {
			t.Errorf("expected syntax error, got %v", err)
		}
	}
}

func TestExpandCached_Concurrent(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const want = "g(f(x))"

	var wg sync.WaitGroup

	errs := make(chan error, 16)

	for range 16 {
		wg.Go(func() {
			got, err := ExpandCached(context.Background(), "x => f => g")
			if err == nil && got != want {
				err = errors.New("unexpected expansion " + got)
			}

			errs <- err
		})
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

func TestExpandCached_Limit(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	limit := cacheLimit
	cacheLimit = 3

	t.Cleanup(func() { cacheLimit = limit })

	ctx := context.Background()

	for _, src := range []string{"a => f", "b => f", "c => f", "a => f", "d => f"} {
		_, err := ExpandCached(ctx, src)
		if err != nil {
			t.Fatalf("ExpandCached(%q) error: %v", src, err)
		}

		if n := CacheLen(); n > 3 {
			t.Fatalf("cache has %d entries after %q, want at most 3", n, src)
		}
	}

	// The fourth distinct source emptied the cache.
	if n := CacheLen(); n != 0 {
		t.Errorf("cache has %d entries, want 0", n)
	}

	got, err := ExpandCached(ctx, "d => f")
	if err != nil || got != "f(d)" {
		t.Errorf("ExpandCached after clear = %q, %v", got, err)
	}

	if n := CacheLen(); n != 1 {
		t.Errorf("cache has %d entries, want 1", n)
	}
}

func TestHashOptions(t *testing.T) {
	base, err := hashOptions(makeOptions())
	if err != nil {
		t.Fatalf("hashOptions error: %v", err)
	}

	again, err := hashOptions(makeOptions())
	if err != nil || again != base {
		t.Errorf("hashOptions not stable: %x, %x, %v", base, again, err)
	}

	names := DefaultNames()
	names.Temp = "__tmp"

	for _, opt := range []Option{WithIndent(4), WithMaxDepth(8), WithNames(names)} {
		h, err := hashOptions(makeOptions(opt))
		if err != nil {
			t.Fatalf("hashOptions error: %v", err)
		}

		if h == base {
			t.Errorf("option did not change the hash %x", h)
		}
	}
}

func TestExpandReader(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	got, err := ExpandReader(context.Background(),
		iotest.OneByteReader(strings.NewReader("v => .trim() => (String)")))
	if err != nil {
		t.Fatalf("ExpandReader error: %v", err)
	}

	if want := "String::from(v.trim())"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	_, err = ExpandReader(context.Background(),
		iotest.ErrReader(errors.New("disk on fire")))
	if !errors.Is(err, lang.ErrReadInput) {
		t.Errorf("expected read error, got %v", err)
	}
}
