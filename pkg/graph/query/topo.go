package query

import (
	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/graph"
)

// TopoSort returns every package ordered so that each package comes after
// all of its dependencies along edges that pass filter. Packages without
// dependencies come first in input order; the result is deterministic.
//
// It fails with CYCLE if the filtered edges contain a cycle; the error names
// the first cycle found by [Cycles]. Excluding development edges with
// [graph.NoDev] usually makes a graph sortable.
func TopoSort(g *graph.PackageGraph, filter graph.EdgeFilter) ([]graph.PackageID, error) {
	ids := g.PackageIDs()
	pending := make(map[graph.PackageID]int, len(ids))
	for _, id := range ids {
		g.EachOutgoing(id, func(e *graph.DependencyEdge) {
			if filter.Allows(e) {
				pending[id]++
			}
		})
	}

	order := make([]graph.PackageID, 0, len(ids))
	for _, id := range ids {
		if pending[id] == 0 {
			order = append(order, id)
		}
	}
	for i := 0; i < len(order); i++ {
		g.EachIncoming(order[i], func(e *graph.DependencyEdge) {
			if !filter.Allows(e) {
				return
			}
			pending[e.From()]--
			if pending[e.From()] == 0 {
				order = append(order, e.From())
			}
		})
	}

	if len(order) < len(ids) {
		cycles := findCycles(g, filter)
		return nil, pkgerrors.New(pkgerrors.ErrCodeCycle, "dependency cycle: %s", cycles[0])
	}
	return order, nil
}
