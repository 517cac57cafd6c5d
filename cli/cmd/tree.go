package cmd

import "context"

// Tree prints the resolved namespace of a document.
type Tree struct {
	Format string `default:"yaml" enum:"yaml,json" help:"Output format."       short:"f"`
	Indent int    `default:"2"                     help:"Indent width."        short:"i"`

	Source `embed:""`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error {
	doc, err := t.document(ctx)
	if err != nil {
		return err
	}

	return write(ctx, outputFrom(ctx), t.Format, doc.Namespace().Tree(), t.Indent)
}
