package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/raindoc/meta"
)

// resolvable reports whether imp has a well-formed name and hash to fetch.
func (imp *Import) resolvable() bool {
	for _, p := range imp.Problems {
		switch p.Code {
		case ExpectedHash, InvalidHash, DuplicateImport:
			return false
		case InvalidWordPattern:
			if p.Position == imp.NamePosition {
				return false
			}
		}
	}

	return imp.Hash != ""
}

// markDuplicates reports imports of a name and hash already imported when
// either statement reconfigures the import.
func markDuplicates(imports []*Import) {
	for i, imp := range imports {
		if !imp.resolvable() {
			continue
		}

		for _, prev := range imports[:i] {
			if prev.Name != imp.Name || prev.Hash != imp.Hash {
				continue
			}

			if len(prev.Directives) > 0 || len(imp.Directives) > 0 {
				imp.Problems = append(imp.Problems, DuplicateImport.At(imp.HashPosition))

				break
			}
		}
	}
}

// resolveImports fetches and classifies every import concurrently. Each
// goroutine only writes to its own import.
func (d *Document) resolveImports(ctx context.Context, flags Flags) {
	markDuplicates(d.imports)

	var g errgroup.Group

	for _, imp := range d.imports {
		if !imp.resolvable() {
			continue
		}

		g.Go(guarded(func() error {
			d.resolveImport(ctx, imp, flags)

			return nil
		}))
	}

	// Resurface a panic on the parsing goroutine so the pass fails as a whole.
	if err := g.Wait(); err != nil {
		panic(err)
	}
}

// guarded converts a panic in fn into an error.
func guarded(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = ErrPanic.Wrap(errors.New(fmt.Sprint(r)))
			}
		}()

		return fn()
	}
}

func (d *Document) resolveImport(ctx context.Context, imp *Import, flags Flags) {
	logger := d.logger.With(
		slog.String("hash", imp.Hash),
		slog.Int("depth", d.depth),
	)

	err := d.store.Update(ctx, imp.Hash)

	raw, ok := d.store.Get(imp.Hash)
	if !ok {
		p := UndefinedMeta.At(imp.HashPosition)
		if err != nil {
			p.Msg += ": " + err.Error()
		}

		imp.Problems = append(imp.Problems, p)
		logger.TraceContext(ctx, "undefined meta", slog.Any("err", err))

		return
	}

	items, err := meta.DecodeCached(raw)
	if err != nil {
		imp.Problems = append(imp.Problems, CorruptMeta.At(imp.HashPosition))
		logger.TraceContext(ctx, "corrupt meta", slog.Any("err", err))

		return
	}

	if !meta.Consumable(items) {
		imp.Problems = append(imp.Problems, InconsumableMeta.At(imp.HashPosition))
		logger.TraceContext(ctx, "inconsumable meta", slog.Int("items", len(items)))

		return
	}

	seq, problems, err := d.classify(ctx, imp, raw, items, flags)
	if err != nil {
		imp.Sequence = Sequence{}
		imp.Problems = append(imp.Problems, CorruptMeta.At(imp.HashPosition))
		logger.TraceContext(ctx, "classify failed", slog.Any("err", err))

		return
	}

	imp.Sequence = seq
	imp.Problems = append(imp.Problems, problems...)

	logger.TraceContext(ctx, "import resolved",
		slog.Bool("words", seq.Words != nil),
		slog.Int("aliases", len(seq.Aliases)),
		slog.Bool("document", seq.Document != nil),
	)
}

// classify processes each payload kind of a consumable meta concurrently. An
// error from any branch discards the whole sequence.
func (d *Document) classify(
	ctx context.Context,
	imp *Import,
	raw []byte,
	items []meta.Item,
	flags Flags,
) (Sequence, []Problem, error) {
	var (
		seq         Sequence
		wordProbs   []Problem
		nestedProbs []Problem
	)

	g, ctx := errgroup.WithContext(ctx)

	if item, ok := meta.Find(items, meta.ExpressionDeployerV2BytecodeV1); ok {
		g.Go(guarded(func() error {
			ws, probs, err := d.wordSet(item.Payload, raw, imp.HashPosition, flags)
			seq.Words, wordProbs = ws, probs

			return err
		}))
	}

	if item, ok := meta.Find(items, meta.InterpreterCallerMetaV1); ok {
		g.Go(guarded(func() error {
			cm, err := meta.DecodeContractMeta(item.Payload)
			if err != nil {
				return err
			}

			aliases, err := cm.Aliases()
			if err != nil {
				return err
			}

			if aliases == nil {
				aliases = []meta.ContextAlias{}
			}

			seq.Aliases = aliases

			return nil
		}))
	}

	if item, ok := meta.Find(items, meta.DotrainV1); ok {
		g.Go(guarded(func() error {
			seq.Document, nestedProbs = d.nested(ctx, string(item.Payload), imp.HashPosition)

			return nil
		}))
	}

	if err := g.Wait(); err != nil {
		return Sequence{}, nil, err
	}

	return seq, append(wordProbs, nestedProbs...), nil
}

// wordSet locates the authoring meta declared by a deployer bytecode, first
// by the hash the bytecode declares and then by the hash of the whole meta.
func (d *Document) wordSet(
	bytecode, raw []byte,
	pos Offsets,
	flags Flags,
) (*WordSet, []Problem, error) {
	ws := &WordSet{Bytecode: bytecode}

	var (
		payload []byte
		found   bool
	)

	if hash, err := d.opts.hashQuery(bytecode); err == nil {
		ws.AuthoringHash = hash
		payload, found = d.store.AuthoringMeta(hash, meta.KeyAuthoringHash)
	}

	if !found {
		payload, found = d.store.AuthoringMeta(meta.Hash(raw), meta.KeyMetaHash)
	}

	if !found {
		if flags.IgnoreAuthoringMeta || flags.IgnoreUndefinedAuthoringMeta {
			return ws, nil, nil
		}

		return ws, []Problem{UndefinedAuthoringMeta.At(pos)}, nil
	}

	words, err := meta.DecodeAuthoringMeta(payload)
	if err != nil {
		return nil, nil, err
	}

	ws.Words = words

	return ws, nil, nil
}

// nested parses an imported document one level deeper, unless that would
// exceed the import depth bound.
func (d *Document) nested(ctx context.Context, text string, pos Offsets) (*Document, []Problem) {
	if d.depth+1 > d.opts.maxImportDepth {
		d.logger.TraceContext(ctx, "import too deep", slog.Int("depth", d.depth+1))

		return nil, []Problem{DeepImport.At(pos)}
	}

	child := &Document{
		store:  d.store,
		depth:  d.depth + 1,
		opts:   d.opts,
		logger: d.logger,
	}

	child.parse(ctx, text)

	if len(child.AllProblems()) > 0 {
		return child, []Problem{InvalidRainDocument.At(pos)}
	}

	return child, nil
}

// contribution builds the namespace an import adds to its target.
func (imp *Import) contribution(index int) (Namespace, *conflict) {
	ns := make(Namespace)
	seq := imp.Sequence

	if seq.Words != nil {
		ns[WordsKey] = &Leaf{Hash: imp.Hash, ImportIndex: index, Element: seq.Words}

		for _, w := range seq.Words.Words {
			ns[w.Name] = &Leaf{
				Hash:        imp.Hash,
				ImportIndex: index,
				Element:     &WordEntry{Word: w},
			}
		}
	}

	if seq.Aliases != nil {
		part := make(Namespace, len(seq.Aliases))

		for _, a := range seq.Aliases {
			part[a.Name] = &Leaf{
				Hash:        imp.Hash,
				ImportIndex: index,
				Element:     &AliasEntry{ContextAlias: a},
			}
		}

		if c := combine(part, ns); c != nil {
			return nil, c
		}
	}

	if seq.Document != nil {
		part := seq.Document.namespace.Clone()
		part.adopt(imp.Hash, index)

		if c := combine(part, ns); c != nil {
			return nil, c
		}
	}

	// A deployer and its nested document must agree on a single word set.
	if len(ns.wordSetHashes()) > 1 {
		return nil, &conflict{MultipleWords, WordsKey}
	}

	return ns, nil
}

// mergeImports merges every resolved import into the document namespace in
// source order.
func (d *Document) mergeImports(ctx context.Context) {
	for i, imp := range d.imports {
		if imp.Sequence.Empty() {
			continue
		}

		ns, c := imp.contribution(i)
		if c == nil {
			imp.Problems = append(imp.Problems, ns.apply(imp.Directives)...)
			c = d.mount(imp, ns)
		}

		if c != nil {
			imp.Problems = append(imp.Problems, c.problem(imp.HashPosition))
			d.logger.TraceContext(ctx, "import rejected",
				slog.String("hash", imp.Hash),
				slog.String("code", c.code.String()),
				slog.String("key", c.name),
			)

			continue
		}

		d.logger.TraceContext(ctx, "import merged",
			slog.String("hash", imp.Hash),
			slog.String("name", imp.Name),
			slog.Int("entries", len(ns)),
		)
	}
}

// mount merges ns into the import's target namespace. A new target is only
// added to the document if the merge succeeds.
func (d *Document) mount(imp *Import, ns Namespace) *conflict {
	target := d.namespace
	fresh := false

	if !imp.Root() {
		switch cur := d.namespace[imp.Name].(type) {
		case nil:
			target, fresh = make(Namespace), true
		case Namespace:
			target = cur
		default:
			return &conflict{NamespaceOccupied, imp.Name}
		}
	}

	if existing := d.namespace.wordSetHashes(); len(existing) > 0 {
		for h := range ns.wordSetHashes() {
			if !existing[h] {
				return &conflict{MultipleWords, WordsKey}
			}
		}
	}

	if c := combine(ns, target); c != nil {
		return c
	}

	if fresh {
		d.namespace[imp.Name] = target
	}

	return nil
}
