package cmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/diagmask/log"
	"github.com/ardnew/diagmask/trace"
	"github.com/ardnew/diagmask/vocab"
	"github.com/ardnew/diagmask/writer"
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

// kongVar returns the kong variable named id, if the context carries a
// kong.Context defining it.
func kongVar(ctx context.Context, id string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[id]

	return v, ok
}

type vocabularyKey struct{}

// WithVocabulary returns a new context.Context carrying the paths of the
// vocabulary files merged into every parser built by a command.
func WithVocabulary(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, vocabularyKey{}, paths)
}

func vocabularyFrom(ctx context.Context) []string {
	paths, _ := ctx.Value(vocabularyKey{}).([]string)

	return paths
}

// newParser builds the writer parser used by the commands, with the
// vocabulary files carried by ctx merged into the built-in options.
func newParser(
	ctx context.Context,
	sink trace.Sink,
) (*writer.Parser, error) {
	paths := vocabularyFrom(ctx)

	extra, err := vocab.LoadRegistry(paths...)
	if err != nil {
		return nil, ErrLoadVocabulary.
			With(slog.Any("files", paths)).
			Wrap(err)
	}

	log.TraceContext(ctx, "vocabulary loaded",
		slog.Any("files", paths),
		slog.Int("options", extra.Len()),
	)

	return writer.NewParser(
		writer.WithRegistry(extra),
		writer.WithSink(sink),
		writer.WithLogger(log.Default()),
	), nil
}

// SourceFiles is the concatenation of one or more input files.
type SourceFiles interface {
	IsZero() bool
	io.ReadCloser
}

type sourceFiles struct {
	read     []io.Reader
	hasStdin bool
}

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

func (s *sourceFiles) readers() []io.Reader {
	readers := s.read
	if s.hasStdin {
		readers = append(readers[:len(readers):len(readers)], os.Stdin)
	}

	return readers
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	return io.MultiReader(s.readers()...).Read(p)
}

// Close closes every opened file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, r := range s.read {
		if c, ok := r.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
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

// openSourceFiles opens the given source paths for reading in order.
//
// Duplicate paths are read once, compared by device and inode after
// resolving symlinks. Every occurrence of "-" is replaced by a single stdin
// reader placed last. Paths that cannot be opened are skipped. The result is
// nil if nothing could be opened.
func openSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.read = append(srcs.read, reader)
	}

	// Stdin may have been included via "-" or as a named file.
	_, srcs.hasStdin = seen[stdinKey]

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path unless a file with the same device
// and inode is already in seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// readDocuments returns the non-blank lines of r that do not start with
// '#', with surrounding whitespace removed.
func readDocuments(r io.Reader) ([]string, error) {
	var docs []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		docs = append(docs, line)
	}

	return docs, scanner.Err()
}
