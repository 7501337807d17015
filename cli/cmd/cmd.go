package cmd

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/spipe/log"
	"github.com/ardnew/spipe/pipe"
	"github.com/ardnew/spipe/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	optionsKey    struct{}
	searchPathKey struct{}
	streamsKey    struct{}
)

// WithOptions returns a new context.Context carrying pipe options shared by
// every command.
func WithOptions(ctx context.Context, opts ...pipe.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// optionsFrom returns the options stored by [WithOptions], preceded by the
// default logger.
func optionsFrom(ctx context.Context) []pipe.Option {
	opts, _ := ctx.Value(optionsKey{}).([]pipe.Option)

	return append([]pipe.Option{pipe.WithLogger(log.Default())}, opts...)
}

// WithSearchPath returns a new context.Context containing the directories
// searched for relative source file names.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

// lookup resolves name against the search path. Names that exist relative to
// the working directory, absolute names, and stdin are returned unchanged, as
// are names found nowhere.
func lookup(ctx context.Context, name string) string {
	if name == stdinSource || filepath.IsAbs(name) {
		return name
	}

	if _, err := os.Stat(name); err == nil {
		return name
	}

	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			log.TraceContext(ctx, "resolved source",
				slog.String("name", name),
				slog.String("path", path))

			return path
		}
	}

	return name
}

// streams are the standard streams used by commands.
type streams struct {
	in       io.Reader
	out, err io.Writer
}

// WithStreams returns a new context.Context whose commands read stdin from in
// and write results to out and diagnostics to errw. Nil arguments keep the
// process streams.
func WithStreams(
	ctx context.Context,
	in io.Reader,
	out, errw io.Writer,
) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out, err: errw})
}

func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if s.err == nil {
		s.err = os.Stderr
	}

	return s
}

// sourceFile is an opened source and the name it was requested by.
type sourceFile struct {
	name string
	file *os.File
}

// sourceFiles is a deduplicated list of opened sources, with stdin last.
type sourceFiles struct {
	files    []sourceFile
	stdin    io.Reader
	hasStdin bool
}

// IsZero reports whether there are no sources.
func (s *sourceFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

// All yields each source's name and contents in order. Stdin, if requested,
// is yielded last under the name "-".
func (s *sourceFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, f := range s.files {
			if !yield(f.name, f.file) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, s.stdin)
		}
	}
}

// Close closes every opened file.
func (s *sourceFiles) Close() error {
	var errs pkg.Error

	for _, f := range s.files {
		errs = errs.Wrap(f.file.Close())
	}

	return errs.Err()
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSources resolves and opens the named sources. With no names, stdin is
// the only source.
//
// Sources are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader placed
// last. Every source that cannot be opened is reported in the returned
// [pkg.Error]; the sources that could be opened are returned regardless.
func openSources(ctx context.Context, names []string) (*sourceFiles, pkg.Error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	srcs := &sourceFiles{
		files: make([]sourceFile, 0, len(names)),
		stdin: streamsFrom(ctx).in,
	}

	var errs pkg.Error

	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	for _, name := range names {
		if name == stdinSource {
			srcs.hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(lookup(ctx, name), seen)
		if err != nil {
			errs = errs.Wrap(ErrOpenSource.Wrap(err).
				With(slog.String("source", name)))

			continue
		}

		if file == nil {
			continue
		}

		// A named file that is the process's stdin is read as stdin.
		if key == stdinKey && key != (fileKey{}) {
			file.Close()

			srcs.hasStdin = true

			continue
		}

		srcs.files = append(srcs.files, sourceFile{name: name, file: file})
	}

	return srcs, errs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate returns a nil file and no error.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
