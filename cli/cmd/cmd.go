package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/raindoc/lang"
	"github.com/ardnew/raindoc/meta"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
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
	storeKey   struct{}
	optionsKey struct{}
	outputKey  struct{}
)

// WithStore returns a new context.Context carrying the metadata store that
// commands resolve imports against.
func WithStore(ctx context.Context, store meta.Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// storeFrom returns the store stored by WithStore, or an empty store.
func storeFrom(ctx context.Context) meta.Store {
	if store, ok := ctx.Value(storeKey{}).(meta.Store); ok && store != nil {
		return store
	}

	return meta.NewMemStore(nil)
}

// WithOptions returns a new context.Context carrying the options applied to
// every document a command parses.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

// WithOutput returns a new context.Context whose commands write to w instead
// of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source selects the document a command reads.
type Source struct {
	Source string `arg:"" default:"-" help:"Source document file or '-' for stdin." name:"source"`
}

// name returns the display name of the source.
func (s Source) name() string {
	if s.Source == stdinSource || s.Source == "" {
		return "<stdin>"
	}

	return s.Source
}

// document reads and resolves the source document.
func (s Source) document(ctx context.Context) (*lang.Document, error) {
	var r io.Reader = os.Stdin

	if s.Source != stdinSource && s.Source != "" {
		file, err := os.Open(s.Source)
		if err != nil {
			return nil, ErrOpenSource.
				With(slog.String("file", s.Source)).
				Wrap(err)
		}
		defer file.Close()

		r = file
	}

	doc, err := lang.Read(ctx, r, storeFrom(ctx), optionsFrom(ctx)...)
	if err != nil {
		return nil, ErrOpenSource.
			With(slog.String("file", s.name())).
			Wrap(err)
	}

	return doc, nil
}

// LoadFixtures loads the metas of every fixture file into store and returns
// their hashes in load order. A file reached through more than one path is
// loaded once.
func LoadFixtures(store *meta.MemStore, paths []string) ([]string, error) {
	var hashes []string

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		file, err := openUniqueFile(path, seen)
		if err != nil {
			return hashes, ErrLoadMeta.With(slog.String("file", path)).Wrap(err)
		}

		if file == nil {
			continue
		}

		loaded, err := meta.LoadYAML(file, store)
		file.Close()

		if err != nil {
			return hashes, ErrLoadMeta.With(slog.String("file", path)).Wrap(err)
		}

		hashes = append(hashes, loaded...)
	}

	return hashes, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openUniqueFile opens the file at path unless a file with the same device
// and inode was seen before, in which case it returns nil and no error.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, nil
		}

		seen[key] = struct{}{}
	}

	return os.Open(resolved)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
