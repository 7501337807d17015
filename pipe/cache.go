package pipe

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/spipe/lang"
)

// DefaultCacheLimit is the number of expansions kept before the cache is
// emptied.
const DefaultCacheLimit = 4096

var (
	// expansions stores rendered expansions keyed by source and option hash.
	expansions sync.Map

	// cached counts the entries stored since the last clear.
	cached atomic.Int64

	cacheLimit int64 = DefaultCacheLimit
)

// ErrCacheKey is returned when the options cannot be encoded into a cache key.
var ErrCacheKey = lang.NewError("failed to build cache key")

// expansion is a cache entry. The first caller for a key fills it.
type expansion struct {
	once sync.Once
	out  string
	err  error
}

// hashOptions encodes the options that affect output using gob and hashes
// the encoding with xxh3.
func hashOptions(o options) (uint64, error) {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	for _, v := range []any{o.names, o.maxDepth, o.indent} {
		err := enc.Encode(v)
		if err != nil {
			return 0, ErrCacheKey.Wrap(err)
		}
	}

	return xxh3.Hash(buf.Bytes()), nil
}

// ExpandCached is [Expand] with results memoized per source text and
// options. Errors are cached as well. Once [DefaultCacheLimit] entries are
// stored, the cache is emptied and refilled.
func ExpandCached(ctx context.Context, source string, opts ...Option) (string, error) {
	o := makeOptions(opts...)

	optsHash, err := hashOptions(o)
	if err != nil {
		o.logger.WarnContext(ctx, "expanding without cache", slog.Any("error", err))

		return Expand(ctx, source, opts...)
	}

	sourceHash := xxh3.HashString(source)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := expansions.LoadOrStore(key, new(expansion))
	if !hit && cached.Add(1) > cacheLimit {
		o.logger.DebugContext(ctx, "cache limit reached",
			slog.Int64("limit", cacheLimit))
		ClearCache()
	}

	entry, ok := value.(*expansion)
	if !ok {
		return "", lang.NewError("invalid cache entry").
			With(slog.String("key", key))
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.out, entry.err = Expand(ctx, source, opts...)
	})

	return entry.out, entry.err
}

// ExpandReader reads a pipeline from r and expands it through the cache.
func ExpandReader(ctx context.Context, r io.Reader, opts ...Option) (string, error) {
	// Read-ahead lets the source be fetched while earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	makeOptions(opts...).logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return ExpandCached(ctx, string(data), opts...)
}

// CacheLen returns the number of cached expansions.
func CacheLen() int {
	n := 0

	expansions.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// ClearCache removes every cached expansion.
func ClearCache() {
	expansions.Clear()
	cached.Store(0)
}
