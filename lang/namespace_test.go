package lang

import (
	"slices"
	"testing"

	"github.com/ardnew/raindoc/meta"
)

func wordsNamespace(hash string, names ...string) Namespace {
	ws := &WordSet{}
	ns := Namespace{WordsKey: &Leaf{Hash: hash, Element: ws}}

	for _, n := range names {
		w := meta.Word{Name: n}
		ws.Words = append(ws.Words, w)
		ns[n] = &Leaf{Hash: hash, Element: &WordEntry{Word: w}}
	}

	return ns
}

func bindingLeaf(hash, name, constant string) *Leaf {
	return &Leaf{
		Hash: hash,
		Element: &Binding{
			Name:     name,
			Kind:     ConstantBinding,
			Constant: constant,
		},
	}
}

func TestCheck(t *testing.T) {
	alias := func(hash string) *Leaf {
		return &Leaf{Hash: hash, Element: &AliasEntry{meta.ContextAlias{Name: "x"}}}
	}

	tests := []struct {
		name     string
		incoming Namespace
		existing Namespace
		want     Code
	}{
		{"disjoint", Namespace{"a": bindingLeaf("h1", "a", "1")}, Namespace{"b": bindingLeaf("h1", "b", "1")}, 0},
		{"same words", wordsNamespace("h1", "add"), wordsNamespace("h1", "add"), 0},
		{"other words", wordsNamespace("h2", "mul"), wordsNamespace("h1", "add"), MultipleWords},
		{"same word other set", Namespace{"add": wordsNamespace("h2", "add")["add"]}, wordsNamespace("h1", "add"), DuplicateIdentifier},
		{"same binding", Namespace{"a": bindingLeaf("h1", "a", "1")}, Namespace{"a": bindingLeaf("h1", "a", "1")}, 0},
		{"other binding", Namespace{"a": bindingLeaf("h2", "a", "1")}, Namespace{"a": bindingLeaf("h1", "a", "1")}, DuplicateIdentifier},
		{"same alias", Namespace{"x": alias("h1")}, Namespace{"x": alias("h1")}, 0},
		{"alias over binding", Namespace{"x": alias("h1")}, Namespace{"x": bindingLeaf("h1", "x", "1")}, DuplicateIdentifier},
		{"leaf over namespace", Namespace{"a": bindingLeaf("h1", "a", "1")}, Namespace{"a": Namespace{}}, NamespaceOccupied},
		{"namespace over leaf", Namespace{"a": Namespace{}}, Namespace{"a": bindingLeaf("h1", "a", "1")}, NamespaceOccupied},
		{
			"nested conflict",
			Namespace{"n": Namespace{"a": bindingLeaf("h2", "a", "1")}},
			Namespace{"n": Namespace{"a": bindingLeaf("h1", "a", "1")}},
			DuplicateIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tt.existing)
			c := check(tt.incoming, tt.existing)

			var got Code
			if c != nil {
				got = c.code
			}

			if got != tt.want {
				t.Errorf("check() = %v, want %v", got, tt.want)
			}

			if len(tt.existing) != before {
				t.Error("check() modified the existing namespace")
			}
		})
	}
}

func TestMergeClones(t *testing.T) {
	incoming := Namespace{"n": Namespace{"a": bindingLeaf("h1", "a", "1")}}
	existing := Namespace{"n": Namespace{"b": bindingLeaf("h1", "b", "2")}}

	if c := combine(incoming, existing); c != nil {
		t.Fatalf("combine() = %v", c.code)
	}

	if got := existing.Paths(); !slices.Equal(got, []string{"n.a", "n.b"}) {
		t.Errorf("Paths() = %v", got)
	}

	// Changing the source must not reach the merged copy.
	incoming["n"].(Namespace)["a"].(*Leaf).Element.(*Binding).Constant = "9"

	item, _ := existing.Lookup("n.a")
	if got := item.(*Leaf).Element.(*Binding).Constant; got != "1" {
		t.Errorf("merged binding aliases its source: constant = %s", got)
	}
}

func TestApplyDirectives(t *testing.T) {
	build := func() Namespace {
		ns := wordsNamespace("h1", "add", "sub")
		ns["old"] = bindingLeaf("h1", "old", "1")
		ns["other"] = bindingLeaf("h1", "other", "2")
		ns["sub-ns"] = Namespace{"x": bindingLeaf("h1", "x", "3")}
		ns["ctx"] = &Leaf{Hash: "h1", Element: &AliasEntry{meta.ContextAlias{Name: "ctx"}}}

		return ns
	}

	tests := []struct {
		name       string
		directives []Directive
		want       []Code
		present    []string
		absent     []string
	}{
		{
			name:       "elide words",
			directives: []Directive{{Kind: Elide, Key: "."}},
			present:    []string{"old", "other"},
			absent:     []string{WordsKey, "add", "sub"},
		},
		{
			name: "elide word after elide words",
			directives: []Directive{
				{Kind: Elide, Key: "."},
				{Kind: Elide, Key: "add"},
			},
			want:   []Code{UndefinedIdentifier},
			absent: []string{WordsKey, "add"},
		},
		{
			name:       "elide single word",
			directives: []Directive{{Kind: Elide, Key: "add"}},
			want:       []Code{SingleWordModify},
			present:    []string{WordsKey, "add"},
		},
		{
			name:       "elide binding",
			directives: []Directive{{Kind: Elide, Key: "old"}},
			present:    []string{"other"},
			absent:     []string{"old"},
		},
		{
			name:       "elide namespace",
			directives: []Directive{{Kind: Elide, Key: "sub-ns"}},
			absent:     []string{"sub-ns", "sub-ns.x"},
		},
		{
			name:       "elide missing",
			directives: []Directive{{Kind: Elide, Key: "nope"}},
			want:       []Code{UndefinedIdentifier},
		},
		{
			name:       "rebind alias",
			directives: []Directive{{Kind: Rebind, Key: "ctx", Value: "1"}},
			want:       []Code{UnexpectedRebinding},
		},
		{
			name:       "rebind namespace",
			directives: []Directive{{Kind: Rebind, Key: "sub-ns", Value: "1"}},
			want:       []Code{UnexpectedRebinding},
		},
		{
			name:       "rebind missing",
			directives: []Directive{{Kind: Rebind, Key: "nope", Value: "1"}},
			want:       []Code{UndefinedIdentifier},
		},
		{
			name:       "rename",
			directives: []Directive{{Kind: Rename, Key: "old", Value: "new"}},
			present:    []string{"new"},
			absent:     []string{"old"},
		},
		{
			name:       "rename to occupied",
			directives: []Directive{{Kind: Rename, Key: "old", Value: "other"}},
			want:       []Code{DuplicateIdentifier},
			present:    []string{"old", "other"},
		},
		{
			name:       "rename word",
			directives: []Directive{{Kind: Rename, Key: "add", Value: "plus"}},
			want:       []Code{SingleWordModify},
			present:    []string{"add"},
			absent:     []string{"plus"},
		},
		{
			name:       "rename missing",
			directives: []Directive{{Kind: Rename, Key: "nope", Value: "x"}},
			want:       []Code{UndefinedIdentifier},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := build()

			if got := codes(ns.apply(tt.directives)); !equalCodes(got, tt.want) {
				t.Errorf("apply() = %v, want %v", got, tt.want)
			}

			for _, p := range tt.present {
				if _, ok := ns.Lookup(p); !ok {
					t.Errorf("%s missing", p)
				}
			}

			for _, p := range tt.absent {
				if _, ok := ns.Lookup(p); ok {
					t.Errorf("%s still present", p)
				}
			}
		})
	}
}

func TestApplyRebindAndRename(t *testing.T) {
	original := &Binding{Name: "old", Kind: ElidedBinding, Elided: "later"}
	ns := Namespace{"old": &Leaf{Hash: "h1", Element: original}}

	problems := ns.apply([]Directive{
		{Kind: Rebind, Key: "old", Value: "0x10"},
		{Kind: Rename, Key: "old", Value: "new"},
	})
	if len(problems) != 0 {
		t.Fatalf("apply() = %v", problems)
	}

	item, ok := ns.Lookup("new")
	if !ok {
		t.Fatal("new missing")
	}

	b := item.(*Leaf).Element.(*Binding)
	if b.Kind != ConstantBinding || b.Constant != "0x10" || b.Elided != "" || b.Name != "new" {
		t.Errorf("binding = %+v", b)
	}

	if original.Kind != ElidedBinding || original.Name != "old" {
		t.Errorf("directive modified the source binding: %+v", original)
	}
}

func TestNamespaceQueries(t *testing.T) {
	ns := Namespace{
		"a":   bindingLeaf("", "a", "1"),
		"lib": Namespace{"b": bindingLeaf("h", "b", "2"), "deep": Namespace{"c": bindingLeaf("h", "c", "3")}},
	}

	if got := ns.Paths(); !slices.Equal(got, []string{"a", "lib.b", "lib.deep.c"}) {
		t.Errorf("Paths() = %v", got)
	}

	for _, path := range []string{"a", "lib", "lib.deep.c"} {
		if _, ok := ns.Lookup(path); !ok {
			t.Errorf("Lookup(%q) missing", path)
		}
	}

	for _, path := range []string{"b", "a.b", "lib.deep.c.d", ""} {
		if _, ok := ns.Lookup(path); ok {
			t.Errorf("Lookup(%q) found", path)
		}
	}

	tree := ns.Tree()

	lib, ok := tree["lib"].(map[string]any)
	if !ok {
		t.Fatalf("Tree()[lib] = %T", tree["lib"])
	}

	b, ok := lib["b"].(map[string]any)
	if !ok || b["kind"] != "binding" || b["constant"] != "2" || b["hash"] != "h" {
		t.Errorf("Tree()[lib][b] = %v", lib["b"])
	}

	if _, ok := tree["a"].(map[string]any)["hash"]; ok {
		t.Error("own binding rendered with a hash")
	}

	clone := ns.Clone()
	delete(clone["lib"].(Namespace), "b")

	if _, ok := ns.Lookup("lib.b"); !ok {
		t.Error("Clone() shares interior nodes")
	}
}
