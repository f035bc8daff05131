// Package toposort provides a deterministic topological sort over a
// directed graph of string-named nodes, with cycle extraction for error
// reporting. Names are interned to integer IDs internally.
package toposort

import "sort"

// Graph represents a directed graph of named nodes.
type Graph struct {
	symbols  *SymbolTable
	intGraph *IntGraph
}

// NewGraph initializes a new Graph.
func NewGraph() *Graph {
	return &Graph{
		symbols:  NewSymbolTable(),
		intGraph: NewIntGraph(),
	}
}

// AddNode inserts a node. Returns false when the node already exists.
func (g *Graph) AddNode(name string) bool {
	if _, exists := g.symbols.Lookup(name); exists {
		return false
	}

	return g.intGraph.AddNode(g.symbols.Intern(name))
}

// AddEdge inserts an edge from "from" to "to", creating either endpoint as
// needed. Returns false when the edge already existed.
func (g *Graph) AddEdge(from, to string) bool {
	u := g.symbols.Intern(from)
	v := g.symbols.Intern(to)

	g.intGraph.AddNode(u)
	g.intGraph.AddNode(v)

	return g.intGraph.AddEdge(u, v)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return g.symbols.Len()
}

// Toposort returns the nodes in edge order: for every edge from -> to,
// "from" appears strictly before "to". Ties among ready nodes are broken
// lexically by name, making the order stable across runs. Returns ok=false
// when the graph has a cycle.
func (g *Graph) Toposort() ([]string, bool) {
	less := func(a, b int) bool {
		return g.symbols.Resolve(a) < g.symbols.Resolve(b)
	}

	ids, ok := g.intGraph.TopoSort(less)

	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = g.symbols.Resolve(id)
	}

	return result, ok
}

// FindCycle returns the cycle containing seed as an ordered node list
// without the closing repetition, or an empty slice when seed is on no
// cycle.
func (g *Graph) FindCycle(seed string) []string {
	id, exists := g.symbols.Lookup(seed)
	if !exists {
		return []string{}
	}

	cycleIDs := g.intGraph.FindCycle(id)
	if len(cycleIDs) > 1 && cycleIDs[0] == cycleIDs[len(cycleIDs)-1] {
		cycleIDs = cycleIDs[:len(cycleIDs)-1]
	}

	result := make([]string, len(cycleIDs))
	for i, cid := range cycleIDs {
		result[i] = g.symbols.Resolve(cid)
	}

	return result
}

// FindAnyCycle locates one cycle anywhere in the graph, probing seeds in
// lexical order so the reported cycle is deterministic. Returns an empty
// slice when the graph is acyclic.
func (g *Graph) FindAnyCycle() []string {
	names := make([]string, g.symbols.Len())
	for i := range names {
		names[i] = g.symbols.Resolve(i)
	}

	sort.Strings(names)

	for _, name := range names {
		if cycle := g.FindCycle(name); len(cycle) > 0 {
			return cycle
		}
	}

	return []string{}
}
