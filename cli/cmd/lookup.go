package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/raindoc/lang"
)

// Lookup prints the namespace entry at a dotted path. An unknown path is
// answered with the closest known paths.
type Lookup struct {
	Path    string `arg:""                help:"Dotted namespace path, e.g. 'lib.add'."`
	Suggest int    `default:"5"           help:"Maximum number of suggestions for an unknown path."`
	Format  string `default:"yaml" enum:"yaml,json" help:"Output format." short:"f"`

	Source `embed:""`
}

// Run executes the lookup command.
func (l *Lookup) Run(ctx context.Context) error {
	doc, err := l.document(ctx)
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	switch item, _ := doc.Namespace().Lookup(l.Path); item := item.(type) {
	case lang.Namespace:
		return write(ctx, w, l.Format, item.Tree(), 2)
	case *lang.Leaf:
		return write(ctx, w, l.Format, item.Tree(), 2)
	}

	suggestions := suggest(l.Path, doc.Namespace().Paths(), l.Suggest)

	if len(suggestions) > 0 {
		if _, err := fmt.Fprintln(w, "did you mean:"); err != nil {
			return err
		}

		for _, s := range suggestions {
			if _, err := fmt.Fprintln(w, "  "+s); err != nil {
				return err
			}
		}
	}

	return lang.ErrNotFound.With(
		slog.String("path", l.Path),
		slog.Any("suggestions", suggestions),
	)
}

// suggest returns up to limit paths that fuzzy-match path, best first.
func suggest(path string, paths []string, limit int) []string {
	matches := fuzzy.Find(path, paths)

	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}

		out = append(out, m.Str)
	}

	return out
}
