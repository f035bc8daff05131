package toposort

import "sort"

// IntGraph is a directed graph over dense integer IDs, optimized for the
// forward traversals the sort needs.
type IntGraph struct {
	// nodes is an adjacency list where nodes[u] holds every v with an edge u -> v.
	nodes [][]int
	// inDegree stores the number of incoming edges per node.
	inDegree []int
}

// NewIntGraph creates an empty IntGraph.
func NewIntGraph() *IntGraph {
	return &IntGraph{
		nodes:    make([][]int, 0),
		inDegree: make([]int, 0),
	}
}

// EnsureCapacity grows the graph to hold at least n nodes.
func (g *IntGraph) EnsureCapacity(n int) {
	if n > len(g.nodes) {
		newNodes := make([][]int, n)
		copy(newNodes, g.nodes)
		g.nodes = newNodes

		newInDegree := make([]int, n)
		copy(newInDegree, g.inDegree)
		g.inDegree = newInDegree
	}
}

// AddNode registers a node ID. Returns true when the ID was not yet tracked.
func (g *IntGraph) AddNode(id int) bool {
	if id >= len(g.nodes) {
		g.EnsureCapacity(id + 1)

		return true
	}

	return false
}

// AddEdge adds a directed edge from u to v. Returns false when the edge
// already existed.
func (g *IntGraph) AddEdge(u, v int) bool {
	g.EnsureCapacity(max(u, v) + 1)

	for _, neighbor := range g.nodes[u] {
		if neighbor == v {
			return false
		}
	}

	g.nodes[u] = append(g.nodes[u], v)
	g.inDegree[v]++

	return true
}

// TopoSort runs Kahn's algorithm. Ties among ready nodes are broken by the
// less comparator so repeated runs over the same graph produce identical
// output. The second result is false when a cycle prevents a full order.
func (g *IntGraph) TopoSort(less func(a, b int) bool) ([]int, bool) {
	n := len(g.nodes)
	if n == 0 {
		return []int{}, true
	}

	inDegree := make([]int, n)
	copy(inDegree, g.inDegree)

	queue := make([]int, 0)

	for i := range n {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	sort.Slice(queue, func(i, j int) bool { return less(queue[i], queue[j]) })

	result := make([]int, 0, n)

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		result = append(result, u)

		for _, v := range g.nodes[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				insertSorted(&queue, v, less)
			}
		}
	}

	if len(result) != n {
		return result, false
	}

	return result, true
}

// FindCycle returns a cycle through start as a closed path
// (start ... start), or an empty slice when start is on no cycle.
func (g *IntGraph) FindCycle(start int) []int {
	if start >= len(g.nodes) {
		return []int{}
	}

	parent := make(map[int]int)

	queue := []int{start}
	parent[start] = -1

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range g.nodes[u] {
			if v == start {
				cycle := []int{start}

				for curr := u; curr != start && curr != -1; curr = parent[curr] {
					cycle = append(cycle, curr)
				}

				cycle = append(cycle, start)

				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}

				return cycle
			}

			if _, seen := parent[v]; !seen {
				parent[v] = u
				queue = append(queue, v)
			}
		}
	}

	return []int{}
}

// insertSorted inserts v into s, keeping s ordered under less.
func insertSorted(s *[]int, v int, less func(a, b int) bool) {
	i := sort.Search(len(*s), func(i int) bool { return less(v, (*s)[i]) })
	*s = append(*s, 0)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = v
}
