package query

import (
	"fmt"
	"slices"
	"sync"
	"time"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/graph"
	"github.com/matzehuels/pkggraph/pkg/observability"
)

// Direction selects which edges a closure follows.
type Direction int

const (
	// Forward follows dependency edges: what do the roots depend on.
	Forward Direction = iota
	// Reverse follows edges backwards: what depends on the roots.
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Result is the set of packages reached by a closure query.
type Result struct {
	dir      Direction
	ids      []graph.PackageID
	reached  map[graph.PackageID]bool
	subgraph func() *graph.PackageGraph
}

// Direction returns the direction the closure was computed in.
func (r *Result) Direction() Direction { return r.dir }

// Len returns the number of reached packages.
func (r *Result) Len() int { return len(r.ids) }

// IDs returns the reached packages in discovery order. Roots come first, in
// the order given.
func (r *Result) IDs() []graph.PackageID { return slices.Clone(r.ids) }

// Contains reports whether id was reached.
func (r *Result) Contains(id graph.PackageID) bool { return r.reached[id] }

// Subgraph returns the subgraph induced by the reached packages, keeping only
// edges that pass the closure's filter. It is built on first call and
// shared afterwards.
func (r *Result) Subgraph() *graph.PackageGraph { return r.subgraph() }

// Closure returns every package reachable from roots along edges that pass
// filter, including the roots themselves. Each package is visited once, so
// cycles are traversed safely in O(packages + edges).
//
// An empty root set yields an empty result. A root that is not in g fails
// with UNKNOWN_PACKAGE.
func Closure(g *graph.PackageGraph, roots []graph.PackageID, dir Direction, filter graph.EdgeFilter) (*Result, error) {
	start := time.Now()

	for _, id := range roots {
		if !g.Contains(id) {
			return nil, pkgerrors.New(pkgerrors.ErrCodeUnknownPackage, "unknown package %q", id)
		}
	}

	r := &Result{
		dir:     dir,
		reached: make(map[graph.PackageID]bool),
	}
	queue := make([]graph.PackageID, 0, len(roots))
	visit := func(id graph.PackageID) {
		if r.reached[id] {
			return
		}
		r.reached[id] = true
		r.ids = append(r.ids, id)
		queue = append(queue, id)
	}

	for _, id := range roots {
		visit(id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if dir == Reverse {
			g.EachIncoming(id, func(e *graph.DependencyEdge) {
				if filter.Allows(e) {
					visit(e.From())
				}
			})
		} else {
			g.EachOutgoing(id, func(e *graph.DependencyEdge) {
				if filter.Allows(e) {
					visit(e.To())
				}
			})
		}
	}

	ids := r.ids
	r.subgraph = sync.OnceValue(func() *graph.PackageGraph { return g.Subgraph(ids, filter) })

	observability.Query().OnClosure(dir.String(), len(roots), len(r.ids), time.Since(start))
	return r, nil
}

// Dependencies is Closure in the Forward direction.
func Dependencies(g *graph.PackageGraph, roots []graph.PackageID, filter graph.EdgeFilter) (*Result, error) {
	return Closure(g, roots, Forward, filter)
}

// Dependents is Closure in the Reverse direction.
func Dependents(g *graph.PackageGraph, roots []graph.PackageID, filter graph.EdgeFilter) (*Result, error) {
	return Closure(g, roots, Reverse, filter)
}

// DependsOn reports whether a reaches b through at least one edge that
// passes filter. A package depends on itself only if it lies on a cycle.
func DependsOn(g *graph.PackageGraph, a, b graph.PackageID, filter graph.EdgeFilter) (bool, error) {
	for _, id := range []graph.PackageID{a, b} {
		if !g.Contains(id) {
			return false, pkgerrors.New(pkgerrors.ErrCodeUnknownPackage, "unknown package %q", id)
		}
	}

	seen := make(map[graph.PackageID]bool)
	queue := []graph.PackageID{a}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		found := false
		g.EachOutgoing(id, func(e *graph.DependencyEdge) {
			if found || !filter.Allows(e) {
				return
			}
			if e.To() == b {
				found = true
				return
			}
			if !seen[e.To()] {
				seen[e.To()] = true
				queue = append(queue, e.To())
			}
		})
		if found {
			return true, nil
		}
	}
	return false, nil
}
