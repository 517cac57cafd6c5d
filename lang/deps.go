package lang

import (
	"slices"
)

var dependencyPattern = quotePattern

// dependencies returns the distinct quoted paths referenced by content.
func dependencies(content string) []string {
	var deps []string

	for _, m := range dependencyPattern.FindAllStringSubmatch(content, -1) {
		if !slices.Contains(deps, m[1]) {
			deps = append(deps, m[1])
		}
	}

	return deps
}

// graph is a set of bindings and their references to each other.
type graph struct {
	nodes []string
	edges map[string][]string
}

func (g *graph) has(name string) bool {
	_, ok := g.edges[name]

	return ok
}

// sort returns the nodes ordered so every node follows the nodes it
// references. On a cycle it returns the node at which the cycle closed.
func (g *graph) sort() (order []string, cycle string, ok bool) {
	const (
		unseen = iota
		active
		done
	)

	state := make(map[string]int, len(g.nodes))

	var visit func(n string) bool

	visit = func(n string) bool {
		switch state[n] {
		case done:
			return true
		case active:
			cycle = n

			return false
		}

		state[n] = active

		for _, m := range g.edges[n] {
			if !visit(m) {
				return false
			}
		}

		state[n] = done
		order = append(order, n)

		return true
	}

	for _, n := range g.nodes {
		if !visit(n) {
			return nil, cycle, false
		}
	}

	return order, "", true
}

// reaching returns target and every node with a path to it.
func (g *graph) reaching(target string) map[string]bool {
	reach := map[string]bool{target: true}

	for changed := true; changed; {
		changed = false

		for _, n := range g.nodes {
			if reach[n] {
				continue
			}

			for _, m := range g.edges[n] {
				if reach[m] {
					reach[n] = true
					changed = true

					break
				}
			}
		}
	}

	return reach
}

// remove deletes nodes and every edge into them.
func (g *graph) remove(nodes map[string]bool) {
	g.nodes = slices.DeleteFunc(g.nodes, func(n string) bool { return nodes[n] })

	for n := range nodes {
		delete(g.edges, n)
	}

	for n, out := range g.edges {
		g.edges[n] = slices.DeleteFunc(out, func(m string) bool { return nodes[m] })
	}
}

// resolveDependencies records each binding's dependencies and returns the
// evaluation order of the expression bindings. Bindings caught in or
// depending on a cycle are left out of the order and given a problem.
func resolveDependencies(bindings []*Binding) ([]string, []Problem) {
	g := &graph{edges: make(map[string][]string)}
	byName := make(map[string]*Binding)

	for _, b := range bindings {
		if !b.valid() || b.Kind != ExpressionBinding {
			continue
		}

		b.Dependencies = dependencies(b.Content)

		if g.has(b.Name) {
			continue
		}

		byName[b.Name] = b
		g.nodes = append(g.nodes, b.Name)
		g.edges[b.Name] = nil
	}

	for _, n := range g.nodes {
		for _, dep := range byName[n].Dependencies {
			if g.has(dep) {
				g.edges[n] = append(g.edges[n], dep)
			}
		}
	}

	// Each pass removes at least one node.
	for range len(g.nodes) + 1 {
		order, cycle, ok := g.sort()
		if ok {
			return order, nil
		}

		removed := g.reaching(cycle)
		for n := range removed {
			b := byName[n]
			b.Problems = append(b.Problems, CircularDependency.At(b.NamePosition))
		}

		g.remove(removed)
	}

	return nil, []Problem{UnresolvableDependencies.At(Offsets{})}
}
