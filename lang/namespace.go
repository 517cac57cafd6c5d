package lang

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/ardnew/raindoc/meta"
)

// WordsKey is the reserved namespace key holding a word set.
const WordsKey = "Words"

var wordPattern = regexp.MustCompile(`^[a-z][0-9a-z-]*$`)

// Item is a namespace entry: either a [*Leaf] or a nested [Namespace].
type Item interface {
	item()
}

// Namespace is an interior node of the scope tree.
type Namespace map[string]Item

func (Namespace) item() {}

// Leaf is a terminal namespace entry.
type Leaf struct {
	// Hash of the import the element came from; empty for the document's own
	// bindings.
	Hash string
	// ImportIndex is the index of that import in the owning document, or -1.
	ImportIndex int
	Element     Element
}

func (*Leaf) item() {}

// Element is the payload of a [Leaf]: one of [*WordSet], [*WordEntry],
// [*Binding] or [*AliasEntry].
type Element interface {
	element()
}

// WordSet is the authoring meta and bytecode of a deployer.
type WordSet struct {
	Words         meta.AuthoringMeta
	Bytecode      []byte
	AuthoringHash string
}

// WordEntry is a single word of a word set.
type WordEntry struct {
	meta.Word
}

// AliasEntry is a named context cell or column.
type AliasEntry struct {
	meta.ContextAlias
}

func (*WordSet) element()    {}
func (*WordEntry) element()  {}
func (*Binding) element()    {}
func (*AliasEntry) element() {}

// Kind returns the element kind name of l.
func (l *Leaf) Kind() string {
	switch l.Element.(type) {
	case *WordSet:
		return "words"
	case *WordEntry:
		return "word"
	case *Binding:
		return "binding"
	case *AliasEntry:
		return "context"
	default:
		return "unknown"
	}
}

func (l *Leaf) clone() *Leaf {
	c := *l

	switch e := l.Element.(type) {
	case *WordSet:
		ws := *e
		ws.Words = slices.Clone(e.Words)
		ws.Bytecode = slices.Clone(e.Bytecode)
		c.Element = &ws
	case *WordEntry:
		we := *e
		c.Element = &we
	case *Binding:
		c.Element = e.clone()
	case *AliasEntry:
		ae := *e
		if e.Row != nil {
			row := *e.Row
			ae.Row = &row
		}

		c.Element = &ae
	}

	return &c
}

// Clone returns a deep copy of ns.
func (ns Namespace) Clone() Namespace {
	c := make(Namespace, len(ns))

	for k, v := range ns {
		switch v := v.(type) {
		case Namespace:
			c[k] = v.Clone()
		case *Leaf:
			c[k] = v.clone()
		}
	}

	return c
}

// Lookup resolves a dotted path.
func (ns Namespace) Lookup(path string) (Item, bool) {
	var cur Item = ns

	for seg := range strings.SplitSeq(path, ".") {
		sub, ok := cur.(Namespace)
		if !ok {
			return nil, false
		}

		if cur, ok = sub[seg]; !ok {
			return nil, false
		}
	}

	return cur, true
}

// Paths returns the dotted path of every leaf, sorted.
func (ns Namespace) Paths() []string {
	var paths []string

	ns.walk("", func(path string, _ *Leaf) {
		paths = append(paths, path)
	})

	slices.Sort(paths)

	return paths
}

// walk visits every leaf in key order.
func (ns Namespace) walk(prefix string, fn func(path string, leaf *Leaf)) {
	for _, k := range slices.Sorted(maps.Keys(ns)) {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		switch v := ns[k].(type) {
		case Namespace:
			v.walk(path, fn)
		case *Leaf:
			fn(path, v)
		}
	}
}

// Tree renders ns as nested maps suitable for YAML or JSON encoding.
func (ns Namespace) Tree() map[string]any {
	tree := make(map[string]any, len(ns))

	for k, v := range ns {
		switch v := v.(type) {
		case Namespace:
			tree[k] = v.Tree()
		case *Leaf:
			tree[k] = v.Tree()
		}
	}

	return tree
}

// Tree renders l as a map suitable for YAML or JSON encoding.
func (l *Leaf) Tree() map[string]any {
	node := map[string]any{"kind": l.Kind()}

	if l.Hash != "" {
		node["hash"] = l.Hash
	}

	switch e := l.Element.(type) {
	case *WordSet:
		node["words"] = e.Words.Names()
		if e.AuthoringHash != "" {
			node["authoring"] = e.AuthoringHash
		}
	case *WordEntry:
		node["description"] = e.Description
	case *Binding:
		switch e.Kind {
		case ConstantBinding:
			node["constant"] = e.Constant
		case ElidedBinding:
			node["elided"] = e.Elided
		default:
			node["content"] = e.Content
		}
	case *AliasEntry:
		node["column"] = e.Column
		if e.Row != nil {
			node["row"] = *e.Row
		}
	}

	return node
}

// wordSetHashes returns the distinct hashes of the word sets in ns.
func (ns Namespace) wordSetHashes() map[string]bool {
	hashes := make(map[string]bool)

	ns.walk("", func(_ string, leaf *Leaf) {
		if _, ok := leaf.Element.(*WordSet); ok {
			hashes[leaf.Hash] = true
		}
	})

	return hashes
}

// conflict describes why a namespace cannot be merged into another.
type conflict struct {
	code Code
	name string
}

func (c *conflict) problem(pos Offsets) Problem {
	switch c.code {
	case DuplicateIdentifier:
		return c.code.At(pos, c.name)
	default:
		return c.code.At(pos)
	}
}

// check reports whether incoming can be merged into existing. It does not
// modify either.
func check(incoming, existing Namespace) *conflict {
	for _, k := range slices.Sorted(maps.Keys(incoming)) {
		cur, ok := existing[k]
		if !ok {
			continue
		}

		switch in := incoming[k].(type) {
		case Namespace:
			sub, ok := cur.(Namespace)
			if !ok {
				return &conflict{NamespaceOccupied, k}
			}

			if c := check(in, sub); c != nil {
				return c
			}

		case *Leaf:
			leaf, ok := cur.(*Leaf)
			if !ok {
				return &conflict{NamespaceOccupied, k}
			}

			if c := compatible(k, in, leaf); c != nil {
				return c
			}
		}
	}

	return nil
}

func compatible(name string, in, cur *Leaf) *conflict {
	switch in.Element.(type) {
	case *WordSet:
		if _, ok := cur.Element.(*WordSet); ok && name == WordsKey {
			if in.Hash != cur.Hash {
				return &conflict{MultipleWords, name}
			}

			return nil
		}
	case *WordEntry:
		if _, ok := cur.Element.(*WordEntry); ok && in.Hash == cur.Hash {
			return nil
		}
	case *Binding:
		if _, ok := cur.Element.(*Binding); ok && in.Hash == cur.Hash {
			return nil
		}
	case *AliasEntry:
		if _, ok := cur.Element.(*AliasEntry); ok && in.Hash == cur.Hash {
			return nil
		}
	}

	return &conflict{DuplicateIdentifier, name}
}

// merge copies every entry of incoming absent from existing. It must only be
// called after check accepts the pair.
func merge(incoming, existing Namespace) {
	for k, v := range incoming {
		cur, ok := existing[k]
		if !ok {
			switch v := v.(type) {
			case Namespace:
				existing[k] = v.Clone()
			case *Leaf:
				existing[k] = v.clone()
			}

			continue
		}

		if in, ok := v.(Namespace); ok {
			if sub, ok := cur.(Namespace); ok {
				merge(in, sub)
			}
		}
	}
}

// combine merges incoming into existing if they are compatible.
func combine(incoming, existing Namespace) *conflict {
	if c := check(incoming, existing); c != nil {
		return c
	}

	merge(incoming, existing)

	return nil
}

// adopt stamps every leaf of ns as having come through the import at index
// with the given hash. Leaves that already carry a hash keep it.
func (ns Namespace) adopt(hash string, index int) {
	for _, v := range ns {
		switch v := v.(type) {
		case Namespace:
			v.adopt(hash, index)
		case *Leaf:
			if v.Hash == "" {
				v.Hash = hash
			}

			v.ImportIndex = index
		}
	}
}

// apply runs the reconfiguration directives of an import against its
// namespace contribution, returning a problem for each one that fails.
func (ns Namespace) apply(directives []Directive) []Problem {
	var problems []Problem

	for _, d := range directives {
		if p, ok := ns.applyOne(d); !ok {
			problems = append(problems, p)
		}
	}

	return problems
}

func (ns Namespace) applyOne(d Directive) (Problem, bool) {
	switch d.Kind {
	case Elide:
		if d.Key == "." {
			if !ns.elideWords() {
				return UndefinedIdentifier.At(d.KeyPosition, d.Key), false
			}

			return Problem{}, true
		}

		leaf, ok := ns[d.Key]
		if !ok {
			return UndefinedIdentifier.At(d.KeyPosition, d.Key), false
		}

		if isWord(leaf) {
			return SingleWordModify.At(d.KeyPosition, d.Key), false
		}

		delete(ns, d.Key)

	case Rebind:
		cur, ok := ns[d.Key]
		if !ok {
			return UndefinedIdentifier.At(d.KeyPosition, d.Key), false
		}

		leaf, ok := cur.(*Leaf)
		if !ok {
			return UnexpectedRebinding.At(d.KeyPosition), false
		}

		b, ok := leaf.Element.(*Binding)
		if !ok {
			return UnexpectedRebinding.At(d.KeyPosition), false
		}

		rebound := leaf.clone()
		rebound.Element = b.rebind(d.Value)
		ns[d.Key] = rebound

	case Rename:
		cur, ok := ns[d.Key]
		if !ok {
			return UndefinedIdentifier.At(d.KeyPosition, d.Key), false
		}

		if isWord(cur) {
			return SingleWordModify.At(d.KeyPosition, d.Key), false
		}

		if _, ok := ns[d.Value]; ok {
			return DuplicateIdentifier.At(d.ValuePosition, d.Value), false
		}

		if leaf, ok := cur.(*Leaf); ok {
			if _, ok := leaf.Element.(*Binding); ok {
				renamed := leaf.clone()
				renamed.Element.(*Binding).Name = d.Value
				cur = renamed
			}
		}

		delete(ns, d.Key)
		ns[d.Value] = cur
	}

	return Problem{}, true
}

func isWord(it Item) bool {
	leaf, ok := it.(*Leaf)
	if !ok {
		return false
	}

	switch leaf.Element.(type) {
	case *WordEntry, *WordSet:
		return true
	default:
		return false
	}
}

// elideWords removes every word set in ns and every word sourced from one,
// reporting whether any set was found.
func (ns Namespace) elideWords() bool {
	hashes := ns.wordSetHashes()
	if len(hashes) == 0 {
		return false
	}

	ns.prune(func(leaf *Leaf) bool {
		switch leaf.Element.(type) {
		case *WordSet, *WordEntry:
			return hashes[leaf.Hash]
		default:
			return false
		}
	})

	return true
}

// prune deletes the leaves matching drop and any namespace left empty.
func (ns Namespace) prune(drop func(*Leaf) bool) {
	for k, v := range ns {
		switch v := v.(type) {
		case Namespace:
			v.prune(drop)

			if len(v) == 0 {
				delete(ns, k)
			}
		case *Leaf:
			if drop(v) {
				delete(ns, k)
			}
		}
	}
}
