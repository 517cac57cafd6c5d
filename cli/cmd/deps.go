package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/raindoc/lang"
	"github.com/ardnew/raindoc/log"
)

// Deps prints the expression bindings of a document in dependency order.
type Deps struct {
	Source `embed:""`
}

// Run executes the deps command. Each line names a binding followed by the
// bindings it references.
func (d *Deps) Run(ctx context.Context) error {
	doc, err := d.document(ctx)
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	for _, name := range doc.Order() {
		b, _ := doc.Binding(name)

		line := name
		if len(b.Dependencies) > 0 {
			line += ": " + strings.Join(b.Dependencies, " ")
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for _, b := range doc.Bindings() {
		for _, p := range b.Problems {
			if p.Code == lang.CircularDependency {
				log.WarnContext(ctx, "binding left out of order",
					slog.String("binding", b.Name),
					slog.String("position", doc.PositionAt(p.Position[0]).String()),
				)
			}
		}
	}

	return nil
}
