package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/raindoc/log"
	"github.com/ardnew/raindoc/meta"
)

// Document is a resolved Rain document. Every parse pass rebuilds all derived
// state from the text; only the metadata store outlives a pass.
//
// A Document is not safe for concurrent use.
type Document struct {
	text  string
	store meta.Store
	depth int

	opts   options
	logger log.Logger

	flags     Flags
	namespace Namespace
	bindings  []*Binding
	imports   []*Import
	comments  []Comment
	problems  []Problem
	order     []string
	words     *WordSet
	wordsPath string
}

// New parses text into a top-level document. A nil store is replaced by an
// empty [meta.MemStore].
func New(ctx context.Context, text string, store meta.Store, opts ...Option) *Document {
	if store == nil {
		store = meta.NewMemStore(nil)
	}

	d := &Document{store: store}

	applyDefaults(d)
	applyOptions(d, opts...)

	d.parse(ctx, text)

	return d
}

// Read parses the contents of r into a top-level document.
func Read(ctx context.Context, r io.Reader, store meta.Store, opts ...Option) (*Document, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return New(ctx, string(data), store, opts...), nil
}

// Update replaces the text and parses it again.
func (d *Document) Update(ctx context.Context, text string) {
	d.parse(ctx, text)
}

// Replace substitutes text for the byte range [start, end) and parses the
// result again.
func (d *Document) Replace(ctx context.Context, start, end int, text string) error {
	if start < 0 || end < start || end > len(d.text) {
		return ErrInvalidRange.With(
			slog.Int("start", start),
			slog.Int("end", end),
			slog.Int("length", len(d.text)),
		)
	}

	d.parse(ctx, d.text[:start]+text+d.text[end:])

	return nil
}

// Text returns the source text.
func (d *Document) Text() string { return d.text }

// Depth returns the import depth; zero for a top-level document.
func (d *Document) Depth() int { return d.depth }

// Flags returns the settings declared by comment markers.
func (d *Document) Flags() Flags { return d.flags }

// Namespace returns the resolved namespace.
func (d *Document) Namespace() Namespace { return d.namespace }

// Bindings returns the bindings in source order.
func (d *Document) Bindings() []*Binding { return d.bindings }

// Imports returns the imports in source order.
func (d *Document) Imports() []*Import { return d.imports }

// Comments returns the comments in source order.
func (d *Document) Comments() []Comment { return d.comments }

// Problems returns the document-level problems.
func (d *Document) Problems() []Problem { return d.problems }

// Order returns the names of the expression bindings that resolved, each
// after every binding it references.
func (d *Document) Order() []string { return d.order }

// Words returns the working word set, or nil if none was selected.
func (d *Document) Words() *WordSet { return d.words }

// WordsPath returns the namespace path of the working word set, "." for the
// root.
func (d *Document) WordsPath() string { return d.wordsPath }

// Binding returns the first binding with the given name.
func (d *Document) Binding(name string) (*Binding, bool) {
	for _, b := range d.bindings {
		if b.Name == name {
			return b, true
		}
	}

	return nil, false
}

// AllProblems returns the document-level problems followed by those of each
// import and each binding.
func (d *Document) AllProblems() []Problem {
	all := slices.Clone(d.problems)

	for _, imp := range d.imports {
		all = append(all, imp.Problems...)
	}

	for _, b := range d.bindings {
		all = append(all, b.Problems...)
	}

	return all
}

// PositionAt converts an offset into the text to a line and column.
func (d *Document) PositionAt(offset int) Position {
	return PositionAt(d.text, offset)
}

// OffsetAt converts a line and column into an offset into the text.
func (d *Document) OffsetAt(pos Position) int {
	return OffsetAt(d.text, pos)
}

func (d *Document) reset(text string) {
	d.text = text
	d.flags = Flags{}
	d.namespace = make(Namespace)
	d.bindings = nil
	d.imports = nil
	d.comments = nil
	d.problems = nil
	d.order = nil
	d.words = nil
	d.wordsPath = ""
}

// parse runs a full pass over text. A panic anywhere in the pass leaves the
// document empty apart from a single runtime error.
func (d *Document) parse(ctx context.Context, text string) {
	d.reset(text)

	if strings.TrimSpace(text) == "" {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.reset(text)
			d.problems = []Problem{RuntimeError.At(Offsets{}, fmt.Sprint(r))}
			d.logger.ErrorContext(ctx, "parse failed",
				slog.Int("depth", d.depth),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	seg := segment(text)

	d.flags = seg.flags
	d.comments = seg.comments
	d.problems = seg.problems

	for _, s := range seg.imports {
		d.imports = append(d.imports, parseImport(s))
	}

	for _, s := range seg.bindings {
		d.bindings = append(d.bindings, parseBinding(s))
	}

	d.logger.TraceContext(ctx, "segmented",
		slog.Int("depth", d.depth),
		slog.Int("comments", len(d.comments)),
		slog.Int("imports", len(d.imports)),
		slog.Int("bindings", len(d.bindings)),
	)

	d.resolveImports(ctx, seg.flags)
	d.mergeImports(ctx)
	d.placeBindings()

	order, problems := resolveDependencies(d.bindings)
	d.order = order
	d.problems = append(d.problems, problems...)

	d.logger.TraceContext(ctx, "dependencies resolved",
		slog.Int("depth", d.depth),
		slog.Any("order", order),
	)

	if d.depth == 0 {
		d.selectWords(ctx)
		d.parseExpressions(seg.flags)
	}

	d.dropIgnored(seg.flags)
}

// placeBindings adds every well-named binding to the root namespace.
func (d *Document) placeBindings() {
	for _, b := range d.bindings {
		if !b.valid() {
			continue
		}

		if _, ok := d.namespace[b.Name]; ok {
			b.Problems = append(b.Problems, DuplicateIdentifier.At(b.NamePosition, b.Name))

			continue
		}

		d.namespace[b.Name] = &Leaf{ImportIndex: -1, Element: b}
	}
}

// selectWords picks the single word set of the namespace as the working word
// set.
func (d *Document) selectWords(ctx context.Context) {
	var (
		paths []string
		sets  []*WordSet
	)

	d.namespace.walk("", func(path string, leaf *Leaf) {
		if ws, ok := leaf.Element.(*WordSet); ok {
			paths = append(paths, path)
			sets = append(sets, ws)
		}
	})

	switch len(sets) {
	case 0:
		d.problems = append(d.problems, NoWords.At(Offsets{}))

		return
	case 1:
	default:
		d.problems = append(d.problems, SingletonWords.At(Offsets{}, len(sets)))

		return
	}

	d.words = sets[0]
	d.wordsPath = strings.TrimSuffix(strings.TrimSuffix(paths[0], WordsKey), ".")

	if d.wordsPath == "" {
		d.wordsPath = "."
	}

	d.logger.TraceContext(ctx, "words selected",
		slog.String("path", d.wordsPath),
		slog.Int("count", len(d.words.Words)),
	)
}

// parseExpressions hands each expression binding to the expression parser
// and maps its problems into document offsets.
func (d *Document) parseExpressions(flags Flags) {
	opts := ParseOptions{
		Namespace:                    d.namespace,
		IgnoreAuthoringMeta:          flags.IgnoreAuthoringMeta,
		IgnoreUndefinedAuthoringMeta: flags.IgnoreUndefinedAuthoringMeta,
	}

	for _, b := range d.bindings {
		if !b.parseable() {
			continue
		}

		expr, problems := d.opts.parser.Parse(b.Content, d.words, opts)
		b.Expression = expr

		for _, p := range problems {
			b.Problems = append(b.Problems, p.shift(b.ContentPosition[0]))
		}
	}
}

// dropIgnored removes problems reported on a line marked by an
// ignore-next-line comment.
func (d *Document) dropIgnored(flags Flags) {
	if len(flags.IgnoredLines) == 0 {
		return
	}

	ignored := func(p Problem) bool { return flags.ignores(d.text, p) }

	d.problems = slices.DeleteFunc(d.problems, ignored)

	for _, imp := range d.imports {
		imp.Problems = slices.DeleteFunc(imp.Problems, ignored)
	}

	for _, b := range d.bindings {
		b.Problems = slices.DeleteFunc(b.Problems, ignored)
	}
}
