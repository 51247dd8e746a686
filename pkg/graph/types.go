package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// =============================================================================
// Identity
// =============================================================================

// PackageID is the opaque, globally unique identifier of one resolved
// package. It is supplied by the metadata collaborator and compared by value.
type PackageID string

// String returns the identifier as a plain string.
func (id PackageID) String() string { return string(id) }

// Compare orders package ids byte-wise, as [strings.Compare] does.
func (id PackageID) Compare(other PackageID) int {
	return strings.Compare(string(id), string(other))
}

// =============================================================================
// Sources
// =============================================================================

// SourceKind describes where a package was obtained from.
type SourceKind int

const (
	// SourceRegistry is a package downloaded from a package registry.
	SourceRegistry SourceKind = iota
	// SourcePath is a package on the local file system.
	SourcePath
	// SourceGit is a package checked out from a remote repository.
	SourceGit
)

var sourceKindNames = map[SourceKind]string{
	SourceRegistry: "registry",
	SourcePath:     "path",
	SourceGit:      "git",
}

func (k SourceKind) String() string {
	if s, ok := sourceKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// MarshalText implements [encoding.TextMarshaler].
func (k SourceKind) MarshalText() ([]byte, error) {
	s, ok := sourceKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown source kind %d", int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *SourceKind) UnmarshalText(text []byte) error {
	for kind, name := range sourceKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown source kind %q", text)
}

// Source records the origin of a package. Location is a registry URL,
// a directory or a repository URL depending on Kind.
type Source struct {
	Kind     SourceKind
	Location string
}

func (s Source) String() string {
	if s.Location == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + "+" + s.Location
}

// =============================================================================
// Records
// =============================================================================

// PackageRecord is one package as supplied by the metadata collaborator.
//
// Features maps each feature name to its activation targets. A target is one
// of:
//
//	feat        another feature of this package
//	dep:name    the optional dependency referenced as name
//	name/feat   feature feat of dependency name, enabling name if optional
//	name?/feat  feature feat of dependency name, only if name is otherwise active
type PackageRecord struct {
	ID              PackageID
	Name            string
	Version         string
	Source          Source
	WorkspaceMember bool
	Features        map[string][]string
}

// PackageMetadata holds the validated attributes of one package in a
// [PackageGraph]. It is immutable.
type PackageMetadata struct {
	id       PackageID
	name     string
	version  *semver.Version
	source   Source
	member   bool
	features map[string][]string
	implicit map[string]bool
	names    []string
}

// ID returns the package identifier.
func (m *PackageMetadata) ID() PackageID { return m.id }

// Name returns the package name.
func (m *PackageMetadata) Name() string { return m.name }

// Version returns the parsed version, or nil for an unversioned package.
func (m *PackageMetadata) Version() *semver.Version { return m.version }

// Source returns where the package came from.
func (m *PackageMetadata) Source() Source { return m.source }

// InWorkspace reports whether the package is a workspace member.
func (m *PackageMetadata) InWorkspace() bool { return m.member }

// FeatureNames returns all feature names in sorted order, including the
// implicit features of optional dependencies.
func (m *PackageMetadata) FeatureNames() []string { return slices.Clone(m.names) }

// HasFeature reports whether name is an explicit or implicit feature.
func (m *PackageMetadata) HasFeature(name string) bool {
	_, ok := m.features[name]
	return ok
}

// IsImplicitFeature reports whether name is a feature synthesized for an
// optional dependency that no feature references with "dep:".
func (m *PackageMetadata) IsImplicitFeature(name string) bool { return m.implicit[name] }

// FeatureTargets returns the activation targets of the named feature.
func (m *PackageMetadata) FeatureTargets(name string) ([]string, bool) {
	t, ok := m.features[name]
	return slices.Clone(t), ok
}

// Features returns a copy of the full feature table.
func (m *PackageMetadata) Features() map[string][]string {
	out := make(map[string][]string, len(m.features))
	for k, v := range m.features {
		out[k] = slices.Clone(v)
	}
	return out
}

func (m *PackageMetadata) String() string {
	if m.version == nil {
		return m.name
	}
	return m.name + "@" + m.version.String()
}

// =============================================================================
// Features
// =============================================================================

// BaseFeature is the feature name of the node representing a package with no
// extra features enabled.
const BaseFeature = ""

// FeatureID identifies one node of the [FeatureGraph].
type FeatureID struct {
	Package PackageID
	Feature string
}

// IsBase reports whether the id denotes the package's base node.
func (f FeatureID) IsBase() bool { return f.Feature == BaseFeature }

func (f FeatureID) String() string {
	if f.IsBase() {
		return string(f.Package) + "[base]"
	}
	return string(f.Package) + "[" + f.Feature + "]"
}

// Compare orders feature ids by package, then by feature name.
func (f FeatureID) Compare(other FeatureID) int {
	if c := f.Package.Compare(other.Package); c != 0 {
		return c
	}
	return strings.Compare(f.Feature, other.Feature)
}

// featureTarget is a parsed feature activation target.
type featureTarget struct {
	dep     string // dependency name, empty for a plain feature
	feature string // feature name, empty for "dep:name"
	weak    bool
}

func parseFeatureTarget(s string) featureTarget {
	if name, ok := strings.CutPrefix(s, "dep:"); ok {
		return featureTarget{dep: name}
	}
	if dep, feat, ok := strings.Cut(s, "/"); ok {
		if name, weak := strings.CutSuffix(dep, "?"); weak {
			return featureTarget{dep: name, feature: feat, weak: true}
		}
		return featureTarget{dep: dep, feature: feat}
	}
	return featureTarget{feature: s}
}
