package platform

import (
	"maps"
	"slices"
	"strconv"
)

// Result is the tri-state outcome of evaluating a [Spec].
type Result int

const (
	// Unknown means the platform does not carry enough information to decide.
	Unknown Result = iota
	// False means the condition does not hold.
	False
	// True means the condition holds.
	True
)

// String returns "true", "false" or "unknown".
func (r Result) String() string {
	switch r {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Bool converts r to a bool, mapping Unknown to unknownAs.
func (r Result) Bool(unknownAs bool) bool {
	switch r {
	case True:
		return true
	case False:
		return false
	default:
		return unknownAs
	}
}

func fromBool(b bool) Result {
	if b {
		return True
	}
	return False
}

// TargetFeatures is the set of target features (e.g. "sse2") enabled on a
// platform, or an unknown set.
type TargetFeatures struct {
	known bool
	set   map[string]bool
}

// UnknownFeatures returns a feature set that makes target_feature predicates
// evaluate to [Unknown].
func UnknownFeatures() TargetFeatures { return TargetFeatures{} }

// NoFeatures returns a known, empty feature set.
func NoFeatures() TargetFeatures { return TargetFeatures{known: true} }

// Features returns a known feature set containing names.
func Features(names ...string) TargetFeatures {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return TargetFeatures{known: true, set: set}
}

// Known reports whether the feature set is known.
func (f TargetFeatures) Known() bool { return f.known }

// Names returns the enabled features in sorted order.
func (f TargetFeatures) Names() []string {
	return slices.Sorted(maps.Keys(f.set))
}

func (f TargetFeatures) has(name string) Result {
	if !f.known {
		return Unknown
	}
	return fromBool(f.set[name])
}

// Platform is a target platform that specs are evaluated against.
//
// The zero value is not usable; use [New].
type Platform struct {
	target   *targetInfo
	features TargetFeatures
	flags    map[string]bool
}

// New returns the platform for a known target triple. It fails with a
// *[ParseError] of kind [UnknownTriple] when triple is not in the built-in
// table (see [KnownTriples]).
func New(triple string, features TargetFeatures) (*Platform, error) {
	t, ok := targets[triple]
	if !ok {
		return nil, &ParseError{Kind: UnknownTriple, Input: triple, Detail: triple}
	}
	return &Platform{target: t, features: features}, nil
}

// MustNew is like [New] but panics on error.
func MustNew(triple string, features TargetFeatures) *Platform {
	p, err := New(triple, features)
	if err != nil {
		panic(err)
	}
	return p
}

// WithFlags returns a copy of p on which the given bare cfg flags are set.
func (p *Platform) WithFlags(flags ...string) *Platform {
	cp := *p
	cp.flags = maps.Clone(p.flags)
	if cp.flags == nil {
		cp.flags = make(map[string]bool, len(flags))
	}
	for _, f := range flags {
		cp.flags[f] = true
	}
	return &cp
}

// Triple returns the platform's target triple.
func (p *Platform) Triple() string { return p.target.triple }

// Features returns the platform's target features.
func (p *Platform) Features() TargetFeatures { return p.features }

// String returns the target triple.
func (p *Platform) String() string { return p.target.triple }

// keyValue evaluates key = "value". The key has already been validated by
// the parser.
func (p *Platform) keyValue(key, value string) Result {
	t := p.target
	switch key {
	case "target_arch":
		return fromBool(t.arch == value)
	case "target_os":
		return fromBool(t.os == value)
	case "target_env":
		return fromBool(t.env == value)
	case "target_vendor":
		return fromBool(t.vendor == value)
	case "target_family":
		return fromBool(slices.Contains(t.families, value))
	case "target_endian":
		return fromBool(t.endian == value)
	case "target_pointer_width":
		return fromBool(strconv.Itoa(t.pointerWidth) == value)
	case "target_has_atomic":
		return fromBool(slices.Contains(t.hasAtomic, value))
	case "target_feature":
		return p.features.has(value)
	default:
		return False
	}
}

// flag evaluates a bare cfg flag. unix and windows are target family
// shorthands; every other flag is false unless set with WithFlags.
func (p *Platform) flag(name string) Result {
	switch name {
	case "unix", "windows":
		return fromBool(slices.Contains(p.target.families, name))
	}
	return fromBool(p.flags[name])
}
