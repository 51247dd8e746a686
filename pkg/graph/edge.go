package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/pkggraph/pkg/platform"
)

// DependencyKind classifies when a dependency is needed.
type DependencyKind int

const (
	// KindNormal is a regular dependency of the package's library or binaries.
	KindNormal DependencyKind = iota
	// KindBuild is a dependency of the package's build script only.
	KindBuild
	// KindDevelopment is a dependency of tests, examples and benchmarks only.
	// Development edges may legitimately form cycles.
	KindDevelopment
)

var kindNames = map[DependencyKind]string{
	KindNormal:      "normal",
	KindBuild:       "build",
	KindDevelopment: "dev",
}

func (k DependencyKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DependencyKind(%d)", int(k))
}

// ParseDependencyKind parses "normal", "build" or "dev". The empty string
// and "development" are accepted as aliases.
func ParseDependencyKind(s string) (DependencyKind, error) {
	switch s {
	case "", "normal":
		return KindNormal, nil
	case "build":
		return KindBuild, nil
	case "dev", "development":
		return KindDevelopment, nil
	}
	return 0, fmt.Errorf("unknown dependency kind %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (k DependencyKind) MarshalText() ([]byte, error) {
	s, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown dependency kind %d", int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *DependencyKind) UnmarshalText(text []byte) error {
	kind, err := ParseDependencyKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// RawEdge is one dependency declaration as supplied by the metadata
// collaborator: package From depends on package To.
type RawEdge struct {
	From     PackageID
	To       PackageID
	Kind     DependencyKind
	Optional bool
	// Rename is the name From uses for To, if it differs from To's name.
	Rename string
	// Platform is a cfg() expression or target triple. Empty means the edge
	// applies on every platform.
	Platform string
	// Features lists features of To enabled by this edge.
	Features []string
	// NoDefaultFeatures disables To's "default" feature for this edge.
	NoDefaultFeatures bool
}

// EdgeID identifies an edge within one [PackageGraph]. Ids are assigned in
// input order starting at zero.
type EdgeID int

// DependencyEdge is a validated, immutable dependency edge. Several edges may
// connect the same ordered pair of packages.
type DependencyEdge struct {
	id              EdgeID
	from            PackageID
	to              PackageID
	kind            DependencyKind
	optional        bool
	rename          string
	depName         string
	platform        *platform.Spec
	features        []string
	defaultFeatures bool
}

// ID returns the edge identifier.
func (e *DependencyEdge) ID() EdgeID { return e.id }

// From returns the depending package.
func (e *DependencyEdge) From() PackageID { return e.from }

// To returns the package depended upon.
func (e *DependencyEdge) To() PackageID { return e.to }

// Kind returns the dependency kind.
func (e *DependencyEdge) Kind() DependencyKind { return e.kind }

// Optional reports whether the dependency is only active when a feature
// enables it.
func (e *DependencyEdge) Optional() bool { return e.optional }

// Rename returns the rename of the dependency, or "" if it is not renamed.
func (e *DependencyEdge) Rename() string { return e.rename }

// DepName returns the name the depending package uses for the dependency:
// the rename if present, otherwise the target's package name.
func (e *DependencyEdge) DepName() string { return e.depName }

// Platform returns the parsed platform condition, or nil if the edge
// applies on every platform.
func (e *DependencyEdge) Platform() *platform.Spec { return e.platform }

// Features returns the features of the target enabled by this edge.
func (e *DependencyEdge) Features() []string { return slices.Clone(e.features) }

// DefaultFeatures reports whether the edge enables the target's "default"
// feature.
func (e *DependencyEdge) DefaultFeatures() bool { return e.defaultFeatures }

// ActiveOn evaluates the platform condition for p. Edges without a
// condition are always active.
func (e *DependencyEdge) ActiveOn(p *platform.Platform) platform.Result {
	if e.platform == nil {
		return platform.True
	}
	return e.platform.Eval(p)
}

// Raw returns the edge as the declaration it was built from.
func (e *DependencyEdge) Raw() RawEdge {
	r := RawEdge{
		From:              e.from,
		To:                e.to,
		Kind:              e.kind,
		Optional:          e.optional,
		Rename:            e.rename,
		Features:          slices.Clone(e.features),
		NoDefaultFeatures: !e.defaultFeatures,
	}
	if e.platform != nil {
		r.Platform = e.platform.String()
	}
	return r
}

func (e *DependencyEdge) String() string {
	s := fmt.Sprintf("%s -> %s (%s", e.from, e.to, e.kind)
	if e.optional {
		s += ", optional"
	}
	if e.platform != nil {
		s += ", " + e.platform.String()
	}
	return s + ")"
}

// withID returns a copy of e carrying a new identifier.
func (e *DependencyEdge) withID(id EdgeID) *DependencyEdge {
	c := *e
	c.id = id
	return &c
}
