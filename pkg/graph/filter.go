package graph

import (
	"slices"

	"github.com/matzehuels/pkggraph/pkg/platform"
)

// EdgeFilter selects the dependency edges a query follows. A nil filter
// selects every edge.
type EdgeFilter func(e *DependencyEdge) bool

// Allows reports whether f selects e.
func (f EdgeFilter) Allows(e *DependencyEdge) bool { return f == nil || f(e) }

// All selects every edge.
func All() EdgeFilter { return nil }

// Kinds selects edges of the given kinds.
func Kinds(kinds ...DependencyKind) EdgeFilter {
	return func(e *DependencyEdge) bool { return slices.Contains(kinds, e.kind) }
}

// ExcludeKinds selects edges of any kind except the given ones.
func ExcludeKinds(kinds ...DependencyKind) EdgeFilter {
	return func(e *DependencyEdge) bool { return !slices.Contains(kinds, e.kind) }
}

// NoDev selects normal and build edges.
func NoDev() EdgeFilter { return ExcludeKinds(KindDevelopment) }

// NonOptional selects edges that are not optional.
func NonOptional() EdgeFilter {
	return func(e *DependencyEdge) bool { return !e.optional }
}

// OnPlatform selects edges whose platform condition holds on p. Conditions
// that evaluate to [platform.Unknown] (for example target_feature checks on a
// platform without a known feature set) are selected when unknownAs is true.
func OnPlatform(p *platform.Platform, unknownAs bool) EdgeFilter {
	return func(e *DependencyEdge) bool { return e.ActiveOn(p).Bool(unknownAs) }
}

// And selects edges selected by every filter. Nil filters are skipped.
func And(filters ...EdgeFilter) EdgeFilter {
	var active []EdgeFilter
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(e *DependencyEdge) bool {
		for _, f := range active {
			if !f(e) {
				return false
			}
		}
		return true
	}
}
