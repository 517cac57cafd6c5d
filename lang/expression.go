package lang

import (
	"regexp"
	"slices"
	"strings"
)

// Expression is the opaque result of an [ExpressionParser].
type Expression any

// ParseOptions is the context handed to an [ExpressionParser].
type ParseOptions struct {
	Namespace                    Namespace
	IgnoreAuthoringMeta          bool
	IgnoreUndefinedAuthoringMeta bool
}

// ExpressionParser parses the content of one binding. Problem positions are
// relative to the start of content.
type ExpressionParser interface {
	Parse(content string, words *WordSet, opts ParseOptions) (Expression, []Problem)
}

// ParserFunc adapts a function to [ExpressionParser].
type ParserFunc func(string, *WordSet, ParseOptions) (Expression, []Problem)

// Parse implements [ExpressionParser].
func (f ParserFunc) Parse(
	content string,
	words *WordSet,
	opts ParseOptions,
) (Expression, []Problem) {
	return f(content, words, opts)
}

const tokenBytes = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_-.'"

var (
	callPattern  = regexp.MustCompile(`([a-z][0-9a-z-]*)\s*[<(]`)
	quotePattern = regexp.MustCompile(`'([a-z][0-9a-z-]*(?:\.[a-z][0-9a-z-]*)*)`)
)

// CheckedExpression is the result of [WordChecker].
type CheckedExpression struct {
	Words  []string `json:"words,omitempty"  yaml:"words,omitempty"`
	Quotes []string `json:"quotes,omitempty" yaml:"quotes,omitempty"`
}

// WordChecker is a shallow [ExpressionParser]: it checks that every called
// word exists in the working word set and that every quoted path resolves in
// the namespace. Word checks are skipped without a word set, and for an
// empty one when authoring meta is ignored.
type WordChecker struct{}

// Parse implements [ExpressionParser].
func (WordChecker) Parse(
	content string,
	words *WordSet,
	opts ParseOptions,
) (Expression, []Problem) {
	var (
		expr     CheckedExpression
		problems []Problem
	)

	checkWords := words != nil && !opts.IgnoreAuthoringMeta &&
		(len(words.Words) > 0 || !opts.IgnoreUndefinedAuthoringMeta)

	for _, m := range callPattern.FindAllStringSubmatchIndex(content, -1) {
		// Skip matches inside a longer token or a quoted path.
		if m[2] > 0 && strings.IndexByte(tokenBytes, content[m[2]-1]) >= 0 {
			continue
		}

		name := content[m[2]:m[3]]
		if !slices.Contains(expr.Words, name) {
			expr.Words = append(expr.Words, name)
		}

		if !checkWords {
			continue
		}

		if _, ok := words.Words.Lookup(name); !ok {
			problems = append(problems,
				UndefinedWord.At(Offsets{m[2], m[3]}, name))
		}
	}

	for _, m := range quotePattern.FindAllStringSubmatchIndex(content, -1) {
		path := content[m[2]:m[3]]
		expr.Quotes = append(expr.Quotes, path)

		if _, ok := opts.Namespace.Lookup(path); !ok {
			problems = append(problems,
				UndefinedQuote.At(Offsets{m[0], m[1]}, path))
		}
	}

	return &expr, problems
}
