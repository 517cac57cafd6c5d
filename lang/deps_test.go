package lang

import (
	"slices"
	"testing"
)

func expressionBindings(pairs ...string) []*Binding {
	var bindings []*Binding

	for i := 0; i+1 < len(pairs); i += 2 {
		bindings = append(bindings, &Binding{
			Name:    pairs[i],
			Content: pairs[i+1],
			Kind:    ExpressionBinding,
		})
	}

	return bindings
}

func TestDependencies(t *testing.T) {
	got := dependencies("add('a 'lib.b 'a mul(1 2))")
	if want := []string{"a", "lib.b"}; !slices.Equal(got, want) {
		t.Errorf("dependencies() = %v, want %v", got, want)
	}

	if got := dependencies("add(1 2)"); len(got) != 0 {
		t.Errorf("dependencies() = %v, want none", got)
	}
}

func TestResolveDependencies(t *testing.T) {
	tests := []struct {
		name     string
		bindings []*Binding
		order    []string
		circular []string
	}{
		{
			name:     "chain",
			bindings: expressionBindings("a", "add('b)", "b", "mul('c)", "c", "now()"),
			order:    []string{"c", "b", "a"},
		},
		{
			name:     "unknown reference",
			bindings: expressionBindings("a", "add('lib.x 'nope)"),
			order:    []string{"a"},
		},
		{
			name:     "self cycle",
			bindings: expressionBindings("a", "add('a)", "b", "now()"),
			order:    []string{"b"},
			circular: []string{"a"},
		},
		{
			name:     "mutual cycle",
			bindings: expressionBindings("a", "add('b)", "b", "add('a)", "c", "now()"),
			order:    []string{"c"},
			circular: []string{"a", "b"},
		},
		{
			name: "dependent of cycle",
			bindings: expressionBindings(
				"a", "add('b)", "b", "add('a)", "d", "mul('a)", "c", "now()",
			),
			order:    []string{"c"},
			circular: []string{"a", "b", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, problems := resolveDependencies(tt.bindings)
			if len(problems) != 0 {
				t.Fatalf("resolveDependencies() problems = %v", problems)
			}

			if !slices.Equal(order, tt.order) {
				t.Errorf("order = %v, want %v", order, tt.order)
			}

			for _, b := range tt.bindings {
				want := slices.Contains(tt.circular, b.Name)
				if got := hasCode(b.Problems, CircularDependency); got != want {
					t.Errorf("%s circular = %v, want %v", b.Name, got, want)
				}
			}
		})
	}
}

func TestResolveDependenciesSkipsNonExpressions(t *testing.T) {
	bindings := expressionBindings("a", "add('k 'e)")
	bindings = append(bindings,
		&Binding{Name: "k", Content: "1", Kind: ConstantBinding, Constant: "1"},
		&Binding{Name: "e", Content: "!", Kind: ElidedBinding, Elided: DefaultElisionReason},
		&Binding{Name: "Bad", Content: "add('a)", Kind: ExpressionBinding},
	)

	order, _ := resolveDependencies(bindings)
	if !slices.Equal(order, []string{"a"}) {
		t.Errorf("order = %v, want [a]", order)
	}

	if got := bindings[0].Dependencies; !slices.Equal(got, []string{"k", "e"}) {
		t.Errorf("a.Dependencies = %v", got)
	}

	if bindings[1].Dependencies != nil {
		t.Errorf("constant binding has dependencies %v", bindings[1].Dependencies)
	}
}

func TestResolveDependenciesDuplicateName(t *testing.T) {
	bindings := expressionBindings("a", "now()", "a", "add('b)", "b", "now()")

	order, _ := resolveDependencies(bindings)
	if !slices.Equal(order, []string{"a", "b"}) {
		t.Errorf("order = %v, want [a b]", order)
	}

	if got := bindings[1].Dependencies; !slices.Equal(got, []string{"b"}) {
		t.Errorf("shadowed binding dependencies = %v", got)
	}
}
