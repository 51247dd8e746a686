package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/observability"
	"github.com/matzehuels/pkggraph/pkg/platform"
)

// Option configures [Build].
type Option func(*buildOptions)

type buildOptions struct {
	root string
}

// WithWorkspaceRoot records the workspace root directory on the graph.
func WithWorkspaceRoot(dir string) Option {
	return func(o *buildOptions) { o.root = dir }
}

// PlatformExpressionError reports a dependency whose platform condition
// could not be parsed. It carries the error code
// INVALID_PLATFORM_EXPRESSION.
type PlatformExpressionError struct {
	From       PackageID
	To         PackageID
	Expression string
	Err        error
}

func (e *PlatformExpressionError) Error() string {
	return fmt.Sprintf("%s: dependency %s -> %s: invalid platform expression %q: %v",
		e.Code(), e.From, e.To, e.Expression, e.Err)
}

// Code returns [pkgerrors.ErrCodeInvalidPlatformExpression].
func (e *PlatformExpressionError) Code() pkgerrors.Code {
	return pkgerrors.ErrCodeInvalidPlatformExpression
}

func (e *PlatformExpressionError) Unwrap() error { return e.Err }

// Build validates records and edges and returns the package graph they
// describe.
//
// Records are validated first, in order: id, uniqueness, name, version and
// feature names. Edges follow in order: both endpoints must be known and the
// platform condition must parse. Finally every feature activation target
// must refer to a feature or dependency that exists.
//
// Build fails on the first problem found and never returns a partially built
// graph. Adjacency lists preserve the order of edges.
func Build(records []PackageRecord, edges []RawEdge, opts ...Option) (g *PackageGraph, err error) {
	start := time.Now()
	defer func() {
		observability.Graph().OnBuild(len(records), len(edges), time.Since(start), err)
	}()

	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := newPackageGraph(len(records), len(edges))
	b.root = o.root

	for _, r := range records {
		if err := pkgerrors.ValidatePackageID(string(r.ID)); err != nil {
			return nil, err
		}
		if b.Contains(r.ID) {
			return nil, pkgerrors.New(pkgerrors.ErrCodeDuplicatePackage, "duplicate package id %q", r.ID)
		}
		m, err := newMetadata(r)
		if err != nil {
			return nil, err
		}
		b.addPackage(m)
	}

	for i, raw := range edges {
		e, err := b.newEdge(EdgeID(i), raw)
		if err != nil {
			return nil, err
		}
		b.addEdge(e)
	}

	if err := b.resolveFeatures(); err != nil {
		return nil, err
	}
	return b, nil
}

func newMetadata(r PackageRecord) (*PackageMetadata, error) {
	if err := pkgerrors.ValidatePackageName(r.Name); err != nil {
		return nil, err
	}

	m := &PackageMetadata{
		id:       r.ID,
		name:     r.Name,
		source:   r.Source,
		member:   r.WorkspaceMember,
		features: make(map[string][]string, len(r.Features)),
		implicit: make(map[string]bool),
	}

	if r.Version != "" {
		v, err := semver.NewVersion(r.Version)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidVersion, err,
				"package %s: invalid version %q", r.ID, r.Version)
		}
		m.version = v
	}

	for name, targets := range r.Features {
		if err := pkgerrors.ValidateFeatureName(name); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidFeature, err, "package %s", r.ID)
		}
		m.features[name] = slices.Clone(targets)
	}
	return m, nil
}

func (g *PackageGraph) newEdge(id EdgeID, raw RawEdge) (*DependencyEdge, error) {
	if !g.Contains(raw.From) {
		return nil, pkgerrors.New(pkgerrors.ErrCodeUnknownDependency,
			"dependency %d references unknown package %q", id, raw.From)
	}
	target, ok := g.packages[raw.To]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrCodeUnknownDependency,
			"package %s depends on unknown package %q", raw.From, raw.To)
	}

	e := &DependencyEdge{
		id:              id,
		from:            raw.From,
		to:              raw.To,
		kind:            raw.Kind,
		optional:        raw.Optional,
		rename:          raw.Rename,
		depName:         target.name,
		features:        slices.Clone(raw.Features),
		defaultFeatures: !raw.NoDefaultFeatures,
	}
	if raw.Rename != "" {
		e.depName = raw.Rename
	}

	if _, ok := kindNames[raw.Kind]; !ok {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidInput,
			"dependency %s -> %s has unknown kind %d", raw.From, raw.To, int(raw.Kind))
	}

	if expr := strings.TrimSpace(raw.Platform); expr != "" {
		spec, err := platform.Parse(expr)
		if err != nil {
			return nil, &PlatformExpressionError{From: raw.From, To: raw.To, Expression: raw.Platform, Err: err}
		}
		e.platform = spec
	}
	return e, nil
}

// resolveFeatures adds implicit features for optional dependencies and
// checks that every activation target names something that exists.
func (g *PackageGraph) resolveFeatures() error {
	for _, id := range g.order {
		addImplicitFeatures(g.packages[id], g.outgoing[id])
	}

	for _, id := range g.order {
		m := g.packages[id]
		deps := dependenciesByName(g.outgoing[id])

		for _, name := range slices.Sorted(maps.Keys(m.features)) {
			for _, t := range m.features[name] {
				if err := g.checkTarget(m, name, t, deps); err != nil {
					return err
				}
			}
		}

		for _, e := range g.outgoing[id] {
			target := g.packages[e.to]
			for _, f := range e.features {
				if !target.HasFeature(f) {
					return pkgerrors.New(pkgerrors.ErrCodeInvalidFeature,
						"dependency %s -> %s enables unknown feature %q", e.from, e.to, f)
				}
			}
		}
	}
	return nil
}

func (g *PackageGraph) checkTarget(m *PackageMetadata, feature, raw string, deps map[string][]*DependencyEdge) error {
	invalid := func(format string, args ...any) error {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidFeature,
			"package %s: feature %q: %s", m.id, feature, fmt.Sprintf(format, args...))
	}

	t := parseFeatureTarget(raw)
	switch {
	case t.dep == "":
		if !m.HasFeature(t.feature) {
			return invalid("enables unknown feature %q", t.feature)
		}
	case t.feature == "":
		if !slices.ContainsFunc(deps[t.dep], (*DependencyEdge).Optional) {
			return invalid("%q is not an optional dependency", raw)
		}
	default:
		edges, ok := deps[t.dep]
		if !ok {
			return invalid("%q refers to unknown dependency %q", raw, t.dep)
		}
		for _, e := range edges {
			if !g.packages[e.to].HasFeature(t.feature) {
				return invalid("%q: package %s has no feature %q", raw, e.to, t.feature)
			}
		}
	}
	return nil
}

// addImplicitFeatures gives every optional dependency that no feature
// references with "dep:" a feature of the same name enabling it.
func addImplicitFeatures(m *PackageMetadata, outgoing []*DependencyEdge) {
	explicit := make(map[string]bool)
	for _, targets := range m.features {
		for _, raw := range targets {
			if t := parseFeatureTarget(raw); t.dep != "" && t.feature == "" {
				explicit[t.dep] = true
			}
		}
	}
	for _, e := range outgoing {
		if !e.optional || explicit[e.depName] || m.HasFeature(e.depName) {
			continue
		}
		m.features[e.depName] = []string{"dep:" + e.depName}
		m.implicit[e.depName] = true
	}
	m.names = slices.Sorted(maps.Keys(m.features))
}

func dependenciesByName(outgoing []*DependencyEdge) map[string][]*DependencyEdge {
	deps := make(map[string][]*DependencyEdge, len(outgoing))
	for _, e := range outgoing {
		deps[e.depName] = append(deps[e.depName], e)
	}
	return deps
}
