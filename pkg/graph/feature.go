package graph

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/pkggraph/internal/scc"
	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/observability"
)

// defaultFeature is enabled on a dependency unless the edge opts out.
const defaultFeature = "default"

// FeatureEdgeKind classifies the edges of a [FeatureGraph].
type FeatureEdgeKind int

const (
	// FeatureEdgeDefinition links a feature to another feature of the same
	// package listed in its definition.
	FeatureEdgeDefinition FeatureEdgeKind = iota
	// FeatureEdgeBase links every feature to its package's base node.
	FeatureEdgeBase
	// FeatureEdgeDependency follows a non-optional dependency, or enables a
	// feature on one.
	FeatureEdgeDependency
	// FeatureEdgeOptional enables an optional dependency from a feature.
	FeatureEdgeOptional
	// FeatureEdgeWeak enables a feature on a dependency only when that
	// dependency is activated by something else.
	FeatureEdgeWeak
)

var featureEdgeKindNames = [...]string{
	FeatureEdgeDefinition: "definition",
	FeatureEdgeBase:       "base",
	FeatureEdgeDependency: "dependency",
	FeatureEdgeOptional:   "optional",
	FeatureEdgeWeak:       "weak",
}

func (k FeatureEdgeKind) String() string {
	if k >= 0 && int(k) < len(featureEdgeKindNames) {
		return featureEdgeKindNames[k]
	}
	return fmt.Sprintf("FeatureEdgeKind(%d)", int(k))
}

// FeatureEdge means: activating From requires activating To.
type FeatureEdge struct {
	From FeatureID
	To   FeatureID
	Kind FeatureEdgeKind
	// Dependency is the package edge this feature edge follows. It is nil for
	// definition and base edges.
	Dependency *DependencyEdge
}

// FeatureCycleError reports feature definitions that activate each other.
// It carries the error code FEATURE_CYCLE.
type FeatureCycleError struct {
	// Features lists the participating features in sorted order.
	Features []FeatureID
}

func (e *FeatureCycleError) Error() string {
	names := make([]string, len(e.Features))
	for i, f := range e.Features {
		names[i] = f.String()
	}
	return fmt.Sprintf("%s: feature definitions form a cycle: %s", e.Code(), strings.Join(names, ", "))
}

// Code returns [pkgerrors.ErrCodeFeatureCycle].
func (e *FeatureCycleError) Code() pkgerrors.Code { return pkgerrors.ErrCodeFeatureCycle }

// =============================================================================
// FeatureGraph
// =============================================================================

// FeatureGraph is the directed graph over (package, feature) pairs derived
// from a [PackageGraph]. Obtain it with [PackageGraph.FeatureGraph].
// It is immutable and safe for concurrent use.
type FeatureGraph struct {
	g       *PackageGraph
	nodes   []FeatureID
	index   map[FeatureID]int
	out     [][]FeatureEdge
	edges   int
	cycles  [][]FeatureID
	inCycle map[int]int
}

func deriveFeatureGraph(g *PackageGraph) *FeatureGraph {
	start := time.Now()

	fg := &FeatureGraph{
		g:       g,
		index:   make(map[FeatureID]int),
		inCycle: make(map[int]int),
	}
	for _, id := range g.order {
		fg.addNode(FeatureID{Package: id})
		for _, name := range g.packages[id].names {
			fg.addNode(FeatureID{Package: id, Feature: name})
		}
	}
	for _, id := range g.order {
		fg.addPackageEdges(g.packages[id], g.outgoing[id])
	}
	fg.findDefinitionCycles()

	observability.Graph().OnFeatureGraph(len(fg.nodes), fg.edges, time.Since(start))
	return fg
}

func (fg *FeatureGraph) addNode(id FeatureID) {
	fg.index[id] = len(fg.nodes)
	fg.nodes = append(fg.nodes, id)
	fg.out = append(fg.out, nil)
}

func (fg *FeatureGraph) addEdge(e FeatureEdge) {
	from, ok := fg.index[e.From]
	if !ok {
		return
	}
	if _, ok := fg.index[e.To]; !ok {
		return
	}
	fg.out[from] = append(fg.out[from], e)
	fg.edges++
}

func (fg *FeatureGraph) addPackageEdges(m *PackageMetadata, outgoing []*DependencyEdge) {
	base := FeatureID{Package: m.id}
	deps := dependenciesByName(outgoing)

	for _, name := range m.names {
		from := FeatureID{Package: m.id, Feature: name}
		fg.addEdge(FeatureEdge{From: from, To: base, Kind: FeatureEdgeBase})

		for _, raw := range m.features[name] {
			t := parseFeatureTarget(raw)
			switch {
			case t.dep == "":
				fg.addEdge(FeatureEdge{From: from, To: FeatureID{Package: m.id, Feature: t.feature}, Kind: FeatureEdgeDefinition})
			case t.feature == "":
				for _, e := range deps[t.dep] {
					if e.optional {
						fg.addDependencyEdges(from, e, FeatureEdgeOptional)
					}
				}
			case t.weak:
				for _, e := range deps[t.dep] {
					fg.addEdge(FeatureEdge{From: from, To: FeatureID{Package: e.to, Feature: t.feature}, Kind: FeatureEdgeWeak, Dependency: e})
				}
			default:
				for _, e := range deps[t.dep] {
					kind := FeatureEdgeDependency
					if e.optional {
						kind = FeatureEdgeOptional
						fg.addDependencyEdges(from, e, kind)
					}
					fg.addEdge(FeatureEdge{From: from, To: FeatureID{Package: e.to, Feature: t.feature}, Kind: kind, Dependency: e})
				}
			}
		}
	}

	for _, e := range outgoing {
		if !e.optional {
			fg.addDependencyEdges(base, e, FeatureEdgeDependency)
		}
	}
}

// addDependencyEdges links from to the base node of e's target and to every
// target feature e enables.
func (fg *FeatureGraph) addDependencyEdges(from FeatureID, e *DependencyEdge, kind FeatureEdgeKind) {
	fg.addEdge(FeatureEdge{From: from, To: FeatureID{Package: e.to}, Kind: kind, Dependency: e})
	if e.defaultFeatures && fg.g.packages[e.to].HasFeature(defaultFeature) {
		fg.addEdge(FeatureEdge{From: from, To: FeatureID{Package: e.to, Feature: defaultFeature}, Kind: kind, Dependency: e})
	}
	for _, f := range e.features {
		fg.addEdge(FeatureEdge{From: from, To: FeatureID{Package: e.to, Feature: f}, Kind: kind, Dependency: e})
	}
}

func (fg *FeatureGraph) definitionSuccessors(v int) []int {
	var succ []int
	for _, e := range fg.out[v] {
		if e.Kind == FeatureEdgeDefinition {
			succ = append(succ, fg.index[e.To])
		}
	}
	return succ
}

func (fg *FeatureGraph) findDefinitionCycles() {
	for _, comp := range scc.Components(len(fg.nodes), fg.definitionSuccessors) {
		if !scc.Cyclic(comp, fg.definitionSuccessors) {
			continue
		}
		ids := make([]FeatureID, len(comp))
		for i, v := range comp {
			ids[i] = fg.nodes[v]
		}
		slices.SortFunc(ids, FeatureID.Compare)
		fg.cycles = append(fg.cycles, ids)
	}
	slices.SortStableFunc(fg.cycles, func(a, b []FeatureID) int { return a[0].Compare(b[0]) })
	for i, c := range fg.cycles {
		for _, id := range c {
			fg.inCycle[fg.index[id]] = i
		}
	}
}

// Len returns the number of feature nodes.
func (fg *FeatureGraph) Len() int { return len(fg.nodes) }

// EdgeCount returns the number of feature edges.
func (fg *FeatureGraph) EdgeCount() int { return fg.edges }

// Nodes returns every feature node: for each package in input order, its
// base node followed by its features in sorted order.
func (fg *FeatureGraph) Nodes() []FeatureID { return slices.Clone(fg.nodes) }

// Contains reports whether id is a node of the graph.
func (fg *FeatureGraph) Contains(id FeatureID) bool {
	_, ok := fg.index[id]
	return ok
}

// Outgoing returns the edges leaving id.
func (fg *FeatureGraph) Outgoing(id FeatureID) []FeatureEdge {
	i, ok := fg.index[id]
	if !ok {
		return nil
	}
	return slices.Clone(fg.out[i])
}

// Cycles returns every set of features whose definitions activate each
// other, each sorted, ordered by their smallest member.
func (fg *FeatureGraph) Cycles() [][]FeatureID {
	out := make([][]FeatureID, len(fg.cycles))
	for i, c := range fg.cycles {
		out[i] = slices.Clone(c)
	}
	return out
}

// =============================================================================
// Activation
// =============================================================================

// Activation is the result of activating features on one package.
type Activation struct {
	root     PackageID
	features []FeatureID
	enabled  map[FeatureID]bool
	packages []PackageID
	active   map[PackageID]bool
	edges    []*DependencyEdge
}

// Root returns the activated package.
func (a *Activation) Root() PackageID { return a.root }

// Features returns the reached feature nodes in discovery order.
func (a *Activation) Features() []FeatureID { return slices.Clone(a.features) }

// Packages returns the activated packages in discovery order, starting with
// the root.
func (a *Activation) Packages() []PackageID { return slices.Clone(a.packages) }

// Contains reports whether pkg was activated.
func (a *Activation) Contains(pkg PackageID) bool { return a.active[pkg] }

// Enabled reports whether the feature node was reached.
func (a *Activation) Enabled(id FeatureID) bool { return a.enabled[id] }

// EnabledFeatures returns the named features enabled on pkg, sorted.
func (a *Activation) EnabledFeatures(pkg PackageID) []string {
	var out []string
	for _, f := range a.features {
		if f.Package == pkg && !f.IsBase() {
			out = append(out, f.Feature)
		}
	}
	slices.Sort(out)
	return out
}

// Edges returns the dependency edges that were followed, in the order they
// were first activated.
func (a *Activation) Edges() []*DependencyEdge { return slices.Clone(a.edges) }

// Activate computes the features and packages activated by enabling the
// given features on pkg. Dependency edges are followed only if filter allows
// them; development edges are followed only out of pkg itself.
//
// It fails with UNKNOWN_PACKAGE if pkg is not in the graph, UNKNOWN_FEATURE
// if a requested feature is not defined on pkg, and with a
// [*FeatureCycleError] if activation reaches features whose definitions form
// a cycle.
func (fg *FeatureGraph) Activate(pkg PackageID, features []string, filter EdgeFilter) (act *Activation, err error) {
	start := time.Now()
	defer func() {
		activated := 0
		if act != nil {
			activated = len(act.packages)
		}
		observability.Query().OnActivate(len(features), activated, time.Since(start), err)
	}()

	m, ok := fg.g.Package(pkg)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrCodeUnknownPackage, "unknown package %q", pkg)
	}
	for _, f := range features {
		if f != BaseFeature && !m.HasFeature(f) {
			return nil, pkgerrors.New(pkgerrors.ErrCodeUnknownFeature, "package %s has no feature %q", pkg, f)
		}
	}

	w := &activationWalk{
		fg:     fg,
		filter: filter,
		act: &Activation{
			root:    pkg,
			enabled: make(map[FeatureID]bool),
			active:  make(map[PackageID]bool),
		},
		visited:    make([]bool, len(fg.nodes)),
		activeDeps: make(map[EdgeID]bool),
		pending:    make(map[EdgeID][]int),
		cycle:      -1,
	}

	w.visit(fg.index[FeatureID{Package: pkg}])
	for _, f := range features {
		w.visit(fg.index[FeatureID{Package: pkg, Feature: f}])
	}
	for len(w.queue) > 0 && w.cycle < 0 {
		v := w.queue[0]
		w.queue = w.queue[1:]
		for i := range fg.out[v] {
			w.follow(&fg.out[v][i])
		}
	}

	if w.cycle >= 0 {
		return nil, &FeatureCycleError{Features: slices.Clone(fg.cycles[w.cycle])}
	}
	return w.act, nil
}

type activationWalk struct {
	fg         *FeatureGraph
	filter     EdgeFilter
	act        *Activation
	visited    []bool
	queue      []int
	activeDeps map[EdgeID]bool
	pending    map[EdgeID][]int
	cycle      int
}

func (w *activationWalk) visit(v int) {
	if w.visited[v] {
		return
	}
	w.visited[v] = true
	w.queue = append(w.queue, v)

	id := w.fg.nodes[v]
	w.act.features = append(w.act.features, id)
	w.act.enabled[id] = true
	if !w.act.active[id.Package] {
		w.act.active[id.Package] = true
		w.act.packages = append(w.act.packages, id.Package)
	}
	if c, ok := w.fg.inCycle[v]; ok && w.cycle < 0 {
		w.cycle = c
	}
}

func (w *activationWalk) follow(e *FeatureEdge) {
	to := w.fg.index[e.To]
	d := e.Dependency
	if d == nil {
		w.visit(to)
		return
	}
	if d.kind == KindDevelopment && d.from != w.act.root {
		return
	}
	if !w.filter.Allows(d) {
		return
	}

	if e.Kind == FeatureEdgeWeak {
		if w.activeDeps[d.id] {
			w.visit(to)
		} else {
			w.pending[d.id] = append(w.pending[d.id], to)
		}
		return
	}

	if !w.activeDeps[d.id] {
		w.activeDeps[d.id] = true
		w.act.edges = append(w.act.edges, d)
		for _, p := range w.pending[d.id] {
			w.visit(p)
		}
		delete(w.pending, d.id)
	}
	w.visit(to)
}

// ActivatedDependencies returns the packages activated by enabling features
// on pkg, following every dependency edge out of pkg and every normal and
// build edge beyond it. The result starts with pkg itself.
func (g *PackageGraph) ActivatedDependencies(pkg PackageID, features []string) ([]PackageID, error) {
	act, err := g.FeatureGraph().Activate(pkg, features, nil)
	if err != nil {
		return nil, err
	}
	return act.Packages(), nil
}
