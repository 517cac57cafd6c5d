package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/raindoc/log"
)

// Check reports every problem of a document.
type Check struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format." short:"f"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output." short:"i"`

	Source `embed:""`
}

// Run executes the check command. It fails if the document has any problem.
func (c *Check) Run(ctx context.Context) error {
	doc, err := c.document(ctx)
	if err != nil {
		return err
	}

	problems := doc.AllProblems()
	w := outputFrom(ctx)

	switch c.Format {
	case "text":
		err = renderProblems(w, c.name(), doc.Text(), problems)
	default:
		err = write(ctx, w, c.Format, reports(doc.Text(), problems), c.Indent)
	}

	if err != nil {
		return err
	}

	log.DebugContext(ctx, "checked document",
		slog.String("source", c.name()),
		slog.Int("problems", len(problems)),
	)

	if len(problems) > 0 {
		return ErrProblems.With(
			slog.String("source", c.name()),
			slog.Int("count", len(problems)),
		)
	}

	return nil
}
