package query_test

import (
	"fmt"

	"github.com/matzehuels/pkggraph/pkg/graph"
	"github.com/matzehuels/pkggraph/pkg/graph/query"
)

func exampleGraph() *graph.PackageGraph {
	records := []graph.PackageRecord{
		{ID: "app", Name: "app"},
		{ID: "http", Name: "http"},
		{ID: "bytes", Name: "bytes"},
		{ID: "mock", Name: "mock"},
	}
	edges := []graph.RawEdge{
		{From: "app", To: "http"},
		{From: "http", To: "bytes"},
		{From: "http", To: "mock", Kind: graph.KindDevelopment},
		{From: "mock", To: "http"},
	}
	g, err := graph.Build(records, edges)
	if err != nil {
		panic(err)
	}
	return g
}

func ExampleClosure() {
	g := exampleGraph()

	deps, _ := query.Closure(g, []graph.PackageID{"app"}, query.Forward, graph.NoDev())
	fmt.Println("app depends on:", deps.IDs())

	rdeps, _ := query.Closure(g, []graph.PackageID{"bytes"}, query.Reverse, nil)
	fmt.Println("bytes is used by:", rdeps.IDs())
	// Output:
	// app depends on: [app http bytes]
	// bytes is used by: [bytes http app mock]
}

func ExampleCycles() {
	g := exampleGraph()

	for _, c := range query.Cycles(g, nil) {
		fmt.Println(c, "dev only:", c.DevOnly(), "kinds:", c.Kinds())
	}
	fmt.Println("without dev edges:", len(query.Cycles(g, graph.NoDev())))
	// Output:
	// http -> mock -> http dev only: false kinds: [normal dev]
	// without dev edges: 0
}

func ExampleTopoSort() {
	g := exampleGraph()

	order, err := query.TopoSort(g, graph.NoDev())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(order)

	_, err = query.TopoSort(g, nil)
	fmt.Println(err)
	// Output:
	// [bytes http app mock]
	// CYCLE: dependency cycle: http -> mock -> http
}
