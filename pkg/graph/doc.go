// Package graph models a resolved package dependency graph.
//
// The graph is built once from already-parsed records and is immutable
// afterwards, so it can be shared across goroutines without locking.
//
// # Architecture
//
//   - [PackageRecord], [RawEdge]: input supplied by the metadata collaborator
//   - [Build]: validates input and produces a [PackageGraph]
//   - [PackageGraph]: packages, typed edges, dual adjacency, links
//   - [EdgeFilter]: predicates selecting which edges a query follows
//   - [FeatureGraph]: (package, feature) graph derived on first use
//
// Traversals over the package graph (closures, cycles, topological order)
// live in the query subpackage.
//
// # Multigraph
//
// Each dependency declaration becomes its own [DependencyEdge] with an
// [EdgeID]. Two packages may be linked by several edges, for example a
// normal and a development edge, and they are never merged:
//
//	edges := g.LinksBetween("app 0.1.0", "serde 1.0.0")
//	for _, e := range edges {
//	    fmt.Println(e.Kind(), e.Optional(), e.Platform())
//	}
//
// Adjacency lists keep the order of the input edges.
//
// # Building
//
//	g, err := graph.Build(records, edges, graph.WithWorkspaceRoot("/src/app"))
//	if errors.Is(err, errors.ErrCodeUnknownDependency) {
//	    // an edge references a package that is not in records
//	}
//
// Build rejects duplicate ids, dangling edges, malformed versions and
// platform conditions, and feature definitions that reference nothing.
// It never returns a partially built graph.
//
// # Features
//
// Feature tables use Cargo syntax ("feat", "dep:name", "name/feat",
// "name?/feat"). Optional dependencies not referenced with "dep:" get an
// implicit feature of the same name.
//
// The feature graph has a base node per package plus one node per feature.
// [FeatureGraph.Activate] walks it from a package's base node and requested
// features:
//
//	deps, err := g.ActivatedDependencies("app 0.1.0", []string{"full"})
//
// Requesting an undefined feature fails with UNKNOWN_FEATURE. Reaching
// features whose definitions activate each other fails with a
// [*FeatureCycleError].
//
// # Concurrency
//
// All methods are safe for concurrent use. The feature graph is derived at
// most once per package graph, even under concurrent first access.
package graph
