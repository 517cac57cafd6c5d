package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/raindoc/lang"
)

// Bindings lists the bindings of a document, optionally filtered by an
// expression over each binding.
type Bindings struct {
	Filter string `help:"Boolean expression over name, kind, content, constant, elided, deps, problems and line." short:"f"`

	Source `embed:""`
}

// bindingEnv is the environment a filter expression is evaluated in.
type bindingEnv struct {
	Name         string   `expr:"name"`
	Kind         string   `expr:"kind"`
	Content      string   `expr:"content"`
	Constant     string   `expr:"constant"`
	Elided       string   `expr:"elided"`
	Dependencies []string `expr:"deps"`
	Problems     int      `expr:"problems"`
	Line         int      `expr:"line"`
}

func newBindingEnv(doc *lang.Document, b *lang.Binding) bindingEnv {
	return bindingEnv{
		Name:         b.Name,
		Kind:         b.Kind.String(),
		Content:      b.Content,
		Constant:     b.Constant,
		Elided:       b.Elided,
		Dependencies: b.Dependencies,
		Problems:     len(b.Problems),
		Line:         doc.PositionAt(b.Position[0]).Line + 1,
	}
}

// compileFilter returns nil for an empty filter.
func compileFilter(filter string) (*vm.Program, error) {
	if filter == "" {
		return nil, nil
	}

	program, err := expr.Compile(filter, expr.Env(bindingEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.With(slog.String("filter", filter)).Wrap(err)
	}

	return program, nil
}

// Run executes the bindings command.
func (b *Bindings) Run(ctx context.Context) error {
	program, err := compileFilter(b.Filter)
	if err != nil {
		return err
	}

	doc, err := b.document(ctx)
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	for _, binding := range doc.Bindings() {
		env := newBindingEnv(doc, binding)

		if program != nil {
			out, err := expr.Run(program, env)
			if err != nil {
				return ErrFilter.With(
					slog.String("filter", b.Filter),
					slog.String("binding", binding.Name),
				).Wrap(err)
			}

			if keep, _ := out.(bool); !keep {
				continue
			}
		}

		_, err := fmt.Fprintf(w, "%d %s %s %s\n",
			env.Line,
			nameStyle.Render(env.Name),
			kindStyle.Render(env.Kind),
			env.Content,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
