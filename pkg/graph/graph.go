package graph

import (
	"slices"
	"sync"

	"github.com/Masterminds/semver/v3"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
)

// PackageGraph is an immutable directed multigraph of packages and their
// dependency edges. Create one with [Build].
//
// All methods are safe for concurrent use. Slices returned by accessors are
// copies; the edges and metadata they point to are shared and read-only.
type PackageGraph struct {
	packages map[PackageID]*PackageMetadata
	order    []PackageID
	edges    []*DependencyEdge
	outgoing map[PackageID][]*DependencyEdge
	incoming map[PackageID][]*DependencyEdge
	byName   map[string][]PackageID
	members  map[string]PackageID
	root     string

	featureGraph func() *FeatureGraph
}

func newPackageGraph(capPackages, capEdges int) *PackageGraph {
	g := &PackageGraph{
		packages: make(map[PackageID]*PackageMetadata, capPackages),
		order:    make([]PackageID, 0, capPackages),
		edges:    make([]*DependencyEdge, 0, capEdges),
		outgoing: make(map[PackageID][]*DependencyEdge, capPackages),
		incoming: make(map[PackageID][]*DependencyEdge, capPackages),
		byName:   make(map[string][]PackageID),
		members:  make(map[string]PackageID),
	}
	g.featureGraph = sync.OnceValue(func() *FeatureGraph { return deriveFeatureGraph(g) })
	return g
}

func (g *PackageGraph) addPackage(m *PackageMetadata) {
	g.packages[m.id] = m
	g.order = append(g.order, m.id)
	g.byName[m.name] = append(g.byName[m.name], m.id)
	if m.member {
		g.members[m.name] = m.id
	}
}

func (g *PackageGraph) addEdge(e *DependencyEdge) {
	g.edges = append(g.edges, e)
	g.outgoing[e.from] = append(g.outgoing[e.from], e)
	g.incoming[e.to] = append(g.incoming[e.to], e)
}

// =============================================================================
// Packages
// =============================================================================

// Len returns the number of packages.
func (g *PackageGraph) Len() int { return len(g.order) }

// Contains reports whether id names a package in the graph.
func (g *PackageGraph) Contains(id PackageID) bool {
	_, ok := g.packages[id]
	return ok
}

// Package returns the metadata for id.
func (g *PackageGraph) Package(id PackageID) (*PackageMetadata, bool) {
	m, ok := g.packages[id]
	return m, ok
}

// PackageIDs returns all package ids in input order.
func (g *PackageGraph) PackageIDs() []PackageID { return slices.Clone(g.order) }

// Packages returns the metadata of all packages in input order.
func (g *PackageGraph) Packages() []*PackageMetadata {
	out := make([]*PackageMetadata, len(g.order))
	for i, id := range g.order {
		out[i] = g.packages[id]
	}
	return out
}

// PackagesNamed returns the packages with the given name in input order.
// Several versions of one package may coexist in a graph.
func (g *PackageGraph) PackagesNamed(name string) []*PackageMetadata {
	ids := g.byName[name]
	out := make([]*PackageMetadata, len(ids))
	for i, id := range ids {
		out[i] = g.packages[id]
	}
	return out
}

// PackagesMatching returns the packages with the given name whose version
// satisfies constraint (for example "^1.2" or ">=0.3, <0.5"). Unversioned
// packages never match.
func (g *PackageGraph) PackagesMatching(name, constraint string) ([]*PackageMetadata, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidVersion, err, "invalid version constraint %q", constraint)
	}
	var out []*PackageMetadata
	for _, m := range g.PackagesNamed(name) {
		if m.version != nil && c.Check(m.version) {
			out = append(out, m)
		}
	}
	return out, nil
}

// WorkspaceRoot returns the workspace root directory passed to
// [WithWorkspaceRoot], or "".
func (g *PackageGraph) WorkspaceRoot() string { return g.root }

// WorkspaceMembers returns the workspace member packages in input order.
func (g *PackageGraph) WorkspaceMembers() []*PackageMetadata {
	var out []*PackageMetadata
	for _, id := range g.order {
		if m := g.packages[id]; m.member {
			out = append(out, m)
		}
	}
	return out
}

// WorkspaceMember returns the workspace member with the given name.
func (g *PackageGraph) WorkspaceMember(name string) (*PackageMetadata, bool) {
	id, ok := g.members[name]
	if !ok {
		return nil, false
	}
	return g.packages[id], true
}

// =============================================================================
// Edges
// =============================================================================

// EdgeCount returns the number of dependency edges.
func (g *PackageGraph) EdgeCount() int { return len(g.edges) }

// Edges returns all edges in input order.
func (g *PackageGraph) Edges() []*DependencyEdge { return slices.Clone(g.edges) }

// Edge returns the edge with the given id.
func (g *PackageGraph) Edge(id EdgeID) (*DependencyEdge, bool) {
	if id < 0 || int(id) >= len(g.edges) {
		return nil, false
	}
	return g.edges[id], true
}

// Outgoing returns the dependencies of id in input order.
func (g *PackageGraph) Outgoing(id PackageID) []*DependencyEdge {
	return slices.Clone(g.outgoing[id])
}

// Incoming returns the edges pointing at id (its dependents) in input order.
func (g *PackageGraph) Incoming(id PackageID) []*DependencyEdge {
	return slices.Clone(g.incoming[id])
}

// EachOutgoing calls fn for every dependency of id in input order, without
// copying the adjacency list.
func (g *PackageGraph) EachOutgoing(id PackageID, fn func(*DependencyEdge)) {
	for _, e := range g.outgoing[id] {
		fn(e)
	}
}

// EachIncoming calls fn for every edge pointing at id in input order,
// without copying the adjacency list.
func (g *PackageGraph) EachIncoming(id PackageID, fn func(*DependencyEdge)) {
	for _, e := range g.incoming[id] {
		fn(e)
	}
}

// LinksBetween returns every edge from one package to another, in the order
// they were supplied to [Build]. It returns an empty slice if there are none,
// including when either package is unknown.
func (g *PackageGraph) LinksBetween(from, to PackageID) []*DependencyEdge {
	out := []*DependencyEdge{}
	for _, e := range g.outgoing[from] {
		if e.to == to {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Derived graphs
// =============================================================================

// Subgraph returns the subgraph induced by keep: the kept packages in their
// original order, and the edges between two kept packages that pass filter,
// in their original order. Unknown ids in keep are ignored.
//
// Edges are renumbered; package metadata and platform conditions are shared
// with g.
func (g *PackageGraph) Subgraph(keep []PackageID, filter EdgeFilter) *PackageGraph {
	kept := make(map[PackageID]bool, len(keep))
	for _, id := range keep {
		if g.Contains(id) {
			kept[id] = true
		}
	}

	sub := newPackageGraph(len(kept), 0)
	sub.root = g.root
	for _, id := range g.order {
		if kept[id] {
			sub.addPackage(g.packages[id])
		}
	}
	for _, e := range g.edges {
		if kept[e.from] && kept[e.to] && filter.Allows(e) {
			sub.addEdge(e.withID(EdgeID(len(sub.edges))))
		}
	}
	return sub
}

// DeclaredFeatures returns the explicitly declared features of id in the
// form accepted by [Build]. Implicit features are omitted, as are targets
// that would no longer resolve in g, such as after [Subgraph] dropped the
// optional edge behind them. It returns nil if id is not in g.
func (g *PackageGraph) DeclaredFeatures(id PackageID) map[string][]string {
	m, ok := g.packages[id]
	if !ok {
		return nil
	}
	deps := dependenciesByName(g.outgoing[id])
	out := make(map[string][]string, len(m.features))
	for name, targets := range m.features {
		if m.implicit[name] {
			continue
		}
		kept := make([]string, 0, len(targets))
		for _, raw := range targets {
			if g.targetResolves(id, parseFeatureTarget(raw), deps) {
				kept = append(kept, raw)
			}
		}
		out[name] = kept
	}
	return out
}

// DeclaredEdgeFeatures returns the features e enables on its target that
// the target still provides in g.
func (g *PackageGraph) DeclaredEdgeFeatures(e *DependencyEdge) []string {
	if len(e.features) == 0 {
		return nil
	}
	out := make([]string, 0, len(e.features))
	for _, f := range e.features {
		if g.providesFeature(e.to, f) {
			out = append(out, f)
		}
	}
	return out
}

func (g *PackageGraph) targetResolves(id PackageID, t featureTarget, deps map[string][]*DependencyEdge) bool {
	switch {
	case t.dep == "":
		return g.providesFeature(id, t.feature)
	case t.feature == "":
		return slices.ContainsFunc(deps[t.dep], (*DependencyEdge).Optional)
	default:
		edges := deps[t.dep]
		if len(edges) == 0 {
			return false
		}
		for _, e := range edges {
			if !g.providesFeature(e.to, t.feature) {
				return false
			}
		}
		return true
	}
}

// providesFeature reports whether id has feature name in g: an explicit
// feature, or an implicit one whose optional edge is still present.
func (g *PackageGraph) providesFeature(id PackageID, name string) bool {
	m, ok := g.packages[id]
	if !ok || !m.HasFeature(name) {
		return false
	}
	if !m.implicit[name] {
		return true
	}
	for _, e := range g.outgoing[id] {
		if e.optional && e.depName == name {
			return true
		}
	}
	return false
}

// FeatureGraph returns the feature graph derived from g. It is computed on
// first use and shared by every later call, including concurrent ones.
func (g *PackageGraph) FeatureGraph() *FeatureGraph { return g.featureGraph() }
