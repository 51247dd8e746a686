// Package query implements read-only traversals over a [graph.PackageGraph].
//
// Every function takes a [graph.EdgeFilter] choosing which edges to follow;
// nil follows all of them. Typical filters exclude development edges or keep
// only edges active on one target platform:
//
//	linux := platform.MustNew("x86_64-unknown-linux-gnu", platform.UnknownFeatures())
//	filter := graph.And(graph.NoDev(), graph.OnPlatform(linux, true))
//
// # Closures
//
// [Closure] computes the packages reachable from a root set, either along
// dependency edges ([Forward]) or against them ([Reverse]). The result lists
// packages in discovery order and builds the induced subgraph on demand:
//
//	res, err := query.Closure(g, []graph.PackageID{"app 0.1.0"}, query.Forward, filter)
//	sub := res.Subgraph()
//
// # Cycles
//
// [Cycles] decomposes the filtered graph into strongly connected components
// and reports each cyclic one. Development edges may legitimately form
// cycles; whether a cycle matters is up to the caller, who can inspect
// [Cycle.Kinds] or run the scan with [graph.NoDev]:
//
//	for _, c := range query.Cycles(g, graph.NoDev()) {
//	    fmt.Println("unexpected cycle:", c)
//	}
//
// # Concurrency
//
// All functions are pure reads of an immutable graph and may run
// concurrently. None of them support cancellation; they run in time linear
// in the size of the graph.
package query
