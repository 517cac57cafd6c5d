package lang

import (
	"context"
	"slices"
	"testing"

	"github.com/ardnew/raindoc/meta"
)

// addWords stores a deployer meta declaring the named words.
func addWords(t *testing.T, store *meta.MemStore, names ...string) string {
	t.Helper()

	words := make(meta.AuthoringMeta, len(names))
	for i, n := range names {
		words[i] = meta.Word{Name: n, Description: n + " op"}
	}

	raw, err := meta.NewBuilder().Deployer(words).Bytes()
	if err != nil {
		t.Fatalf("build deployer meta: %v", err)
	}

	return store.Add(raw)
}

// addDotrain stores a meta holding a nested document.
func addDotrain(t *testing.T, store *meta.MemStore, text string) string {
	t.Helper()

	raw, err := meta.NewBuilder().Dotrain(text).Bytes()
	if err != nil {
		t.Fatalf("build dotrain meta: %v", err)
	}

	return store.Add(raw)
}

// addItems stores a meta made of the given raw items.
func addItems(t *testing.T, store *meta.MemStore, items ...meta.Item) string {
	t.Helper()

	raw, err := meta.Encode(items...)
	if err != nil {
		t.Fatalf("encode meta: %v", err)
	}

	return store.Add(raw)
}

func newDoc(t *testing.T, text string, store *meta.MemStore, opts ...Option) *Document {
	t.Helper()

	if store == nil {
		store = meta.NewMemStore(nil)
	}

	return New(context.Background(), text, store, opts...)
}

func codes(problems []Problem) []Code {
	out := make([]Code, len(problems))
	for i, p := range problems {
		out[i] = p.Code
	}

	return out
}

func hasCode(problems []Problem, code Code) bool {
	return slices.Contains(codes(problems), code)
}

func countCode(problems []Problem, code Code) int {
	n := 0

	for _, p := range problems {
		if p.Code == code {
			n++
		}
	}

	return n
}

// checkPositions fails if any problem points outside of d's text.
func checkPositions(t *testing.T, d *Document) {
	t.Helper()

	for _, p := range d.AllProblems() {
		if p.Position[0] < 0 || p.Position[0] > p.Position[1] || p.Position[1] > len(d.Text()) {
			t.Errorf("problem %v has invalid position %v for text of length %d",
				p.Code, p.Position, len(d.Text()))
		}
	}
}
