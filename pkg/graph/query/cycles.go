package query

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/pkggraph/internal/scc"
	"github.com/matzehuels/pkggraph/pkg/graph"
	"github.com/matzehuels/pkggraph/pkg/observability"
)

// Cycle is one strongly connected component of the filtered graph that
// contains a cycle.
type Cycle struct {
	// Walk is a closed walk through the component starting at its smallest
	// member: each package depends on the next, and the last on the first.
	Walk []graph.PackageID
	// Members lists every package of the component in sorted order.
	Members []graph.PackageID
	// Edges lists the filtered edges between members in input order.
	Edges []*graph.DependencyEdge
}

// Kinds returns the distinct dependency kinds of the cycle's edges, in
// ascending order.
func (c Cycle) Kinds() []graph.DependencyKind {
	var kinds []graph.DependencyKind
	for _, e := range c.Edges {
		if !slices.Contains(kinds, e.Kind()) {
			kinds = append(kinds, e.Kind())
		}
	}
	slices.Sort(kinds)
	return kinds
}

// HasKind reports whether any edge of the cycle has the given kind.
func (c Cycle) HasKind(kind graph.DependencyKind) bool {
	return slices.ContainsFunc(c.Edges, func(e *graph.DependencyEdge) bool { return e.Kind() == kind })
}

// DevOnly reports whether every edge of the cycle is a development edge.
// Such cycles are expected; any other cycle is an anomaly.
func (c Cycle) DevOnly() bool {
	return !slices.ContainsFunc(c.Edges, func(e *graph.DependencyEdge) bool { return e.Kind() != graph.KindDevelopment })
}

func (c Cycle) String() string {
	parts := make([]string, len(c.Walk)+1)
	for i, id := range c.Walk {
		parts[i] = string(id)
	}
	parts[len(c.Walk)] = string(c.Walk[0])
	return strings.Join(parts, " -> ")
}

// Cycles returns every cycle among edges that pass filter. A component is
// reported if it has more than one package or a package that depends on
// itself.
//
// Cycles are ordered by their smallest member; a package belongs to at most
// one cycle.
func Cycles(g *graph.PackageGraph, filter graph.EdgeFilter) []Cycle {
	start := time.Now()
	cycles := findCycles(g, filter)
	observability.Query().OnCycles(len(cycles), time.Since(start))
	return cycles
}

// indexedGraph maps packages to dense indexes for the SCC routine.
type indexedGraph struct {
	ids   []graph.PackageID
	index map[graph.PackageID]int
	succ  [][]int
	edges [][]*graph.DependencyEdge
}

func indexGraph(g *graph.PackageGraph, filter graph.EdgeFilter) *indexedGraph {
	ig := &indexedGraph{
		ids:   g.PackageIDs(),
		index: make(map[graph.PackageID]int, g.Len()),
	}
	for i, id := range ig.ids {
		ig.index[id] = i
	}
	ig.succ = make([][]int, len(ig.ids))
	ig.edges = make([][]*graph.DependencyEdge, len(ig.ids))
	for i, id := range ig.ids {
		g.EachOutgoing(id, func(e *graph.DependencyEdge) {
			if filter.Allows(e) {
				ig.succ[i] = append(ig.succ[i], ig.index[e.To()])
				ig.edges[i] = append(ig.edges[i], e)
			}
		})
	}
	return ig
}

func (ig *indexedGraph) successors(v int) []int { return ig.succ[v] }

func findCycles(g *graph.PackageGraph, filter graph.EdgeFilter) []Cycle {
	ig := indexGraph(g, filter)

	var cycles []Cycle
	for _, comp := range scc.Components(len(ig.ids), ig.successors) {
		if scc.Cyclic(comp, ig.successors) {
			cycles = append(cycles, ig.cycle(comp))
		}
	}
	slices.SortStableFunc(cycles, func(a, b Cycle) int { return a.Members[0].Compare(b.Members[0]) })
	return cycles
}

func (ig *indexedGraph) cycle(comp []int) Cycle {
	in := make(map[int]bool, len(comp))
	for _, v := range comp {
		in[v] = true
	}

	c := Cycle{Members: make([]graph.PackageID, len(comp))}
	for i, v := range comp {
		c.Members[i] = ig.ids[v]
	}
	slices.SortFunc(c.Members, graph.PackageID.Compare)

	for _, v := range comp {
		for _, e := range ig.edges[v] {
			if in[ig.index[e.To()]] {
				c.Edges = append(c.Edges, e)
			}
		}
	}
	slices.SortFunc(c.Edges, func(a, b *graph.DependencyEdge) int { return int(a.ID()) - int(b.ID()) })

	c.Walk = ig.walk(ig.index[c.Members[0]], in)
	return c
}

// walk returns the shortest closed walk from start back to start that stays
// inside the component.
func (ig *indexedGraph) walk(start int, in map[int]bool) []graph.PackageID {
	parent := map[int]int{start: -1}
	queue := []int{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range ig.succ[v] {
			if w == start {
				return ig.path(parent, v)
			}
			if _, seen := parent[w]; seen || !in[w] {
				continue
			}
			parent[w] = v
			queue = append(queue, w)
		}
	}
	return []graph.PackageID{ig.ids[start]}
}

func (ig *indexedGraph) path(parent map[int]int, last int) []graph.PackageID {
	var rev []graph.PackageID
	for v := last; v != -1; v = parent[v] {
		rev = append(rev, ig.ids[v])
	}
	slices.Reverse(rev)
	return rev
}
