package lang

import (
	"slices"
	"testing"

	"github.com/ardnew/raindoc/meta"
)

func TestWordChecker(t *testing.T) {
	const content = "add(1 mul(2) 'x.y 'x.z)"

	ns := Namespace{"x": Namespace{"y": bindingLeaf("", "y", "1")}}
	words := &WordSet{Words: meta.AuthoringMeta{{Name: "add"}}}

	expr, problems := WordChecker{}.Parse(content, words, ParseOptions{Namespace: ns})

	want := []Problem{
		UndefinedWord.At(Offsets{6, 9}, "mul"),
		UndefinedQuote.At(Offsets{18, 22}, "x.z"),
	}
	if !slices.Equal(problems, want) {
		t.Errorf("Parse() problems = %v, want %v", problems, want)
	}

	checked, ok := expr.(*CheckedExpression)
	if !ok {
		t.Fatalf("Parse() = %T", expr)
	}

	if !slices.Equal(checked.Words, []string{"add", "mul"}) {
		t.Errorf("Words = %v", checked.Words)
	}

	if !slices.Equal(checked.Quotes, []string{"x.y", "x.z"}) {
		t.Errorf("Quotes = %v", checked.Quotes)
	}
}

func TestWordCheckerSkipsWords(t *testing.T) {
	empty := &WordSet{}

	tests := []struct {
		name  string
		words *WordSet
		opts  ParseOptions
		want  int
	}{
		{"no word set", nil, ParseOptions{}, 0},
		{"ignore authoring meta", empty, ParseOptions{IgnoreAuthoringMeta: true}, 0},
		{"ignore undefined authoring meta", empty, ParseOptions{IgnoreUndefinedAuthoringMeta: true}, 0},
		{"empty word set", empty, ParseOptions{}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, problems := WordChecker{}.Parse("add(sub(1))", tt.words, tt.opts)

			if got := countCode(problems, UndefinedWord); got != tt.want {
				t.Errorf("UndefinedWord count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWordCheckerTokenBoundaries(t *testing.T) {
	words := &WordSet{Words: meta.AuthoringMeta{{Name: "add"}}}

	// Neither the quoted path nor the tail of a longer token is a call.
	expr, problems := WordChecker{}.Parse("'lib.sub(1) x_add(2)", words,
		ParseOptions{Namespace: Namespace{"lib": Namespace{"sub": bindingLeaf("", "sub", "1")}}})

	if len(problems) != 0 {
		t.Errorf("Parse() problems = %v", problems)
	}

	if got := expr.(*CheckedExpression).Words; len(got) != 0 {
		t.Errorf("Words = %v", got)
	}
}
