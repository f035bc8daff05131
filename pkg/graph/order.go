package graph

import (
	"github.com/pypack-dev/pypack/pkg/toposort"
)

// Order performs a topological sort over the dependency edges and returns
// the registered modules in emission order: every dependency strictly
// before its dependents, ties broken lexically so unchanged input yields
// byte-identical packs. Edges to names with no registered module (external
// fallbacks) participate in the ordering but are never emitted.
//
// A cycle is fatal and reported as a *CycleError naming the full cycle.
func (g *ModuleGraph) Order() ([]*Module, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sorter := toposort.NewGraph()

	for name, module := range g.modules {
		sorter.AddNode(name)

		for dep := range module.Imports {
			// Dependency first: the edge points from prerequisite to
			// dependent.
			sorter.AddEdge(dep, name)
		}
	}

	sorted, ok := sorter.Toposort()
	if !ok {
		return nil, &CycleError{Cycle: sorter.FindAnyCycle()}
	}

	ordered := make([]*Module, 0, len(g.modules))

	for _, name := range sorted {
		if module, found := g.modules[name]; found {
			ordered = append(ordered, module)
		}
	}

	return ordered, nil
}
