package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pkggraph/pkg/graph"
)

type snapshot struct {
	WorkspaceRoot string       `json:"workspace_root,omitempty"`
	Packages      []pkgRecord  `json:"packages"`
	Dependencies  []dependency `json:"dependencies"`
}

type pkgRecord struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Version         string              `json:"version,omitempty"`
	Source          *source             `json:"source,omitempty"`
	WorkspaceMember bool                `json:"workspace_member,omitempty"`
	Features        map[string][]string `json:"features,omitempty"`
}

type source struct {
	Kind     graph.SourceKind `json:"kind"`
	Location string           `json:"location,omitempty"`
}

type dependency struct {
	From            string               `json:"from"`
	To              string               `json:"to"`
	Kind            graph.DependencyKind `json:"kind,omitempty"`
	Optional        bool                 `json:"optional,omitempty"`
	Rename          string               `json:"rename,omitempty"`
	Target          string               `json:"target,omitempty"`
	Features        []string             `json:"features,omitempty"`
	DefaultFeatures *bool                `json:"default_features,omitempty"`
}

// WriteJSON encodes g as a snapshot and writes it to w.
// Features are written as [graph.PackageGraph.DeclaredFeatures] and
// [graph.PackageGraph.DeclaredEdgeFeatures] report them, so the output of
// any graph, subgraphs included, can be re-read with [ReadJSON].
func WriteJSON(g *graph.PackageGraph, w io.Writer) error {
	out := snapshot{
		WorkspaceRoot: g.WorkspaceRoot(),
		Packages:      make([]pkgRecord, 0, g.Len()),
		Dependencies:  make([]dependency, 0, g.EdgeCount()),
	}

	for _, m := range g.Packages() {
		p := pkgRecord{
			ID:              string(m.ID()),
			Name:            m.Name(),
			WorkspaceMember: m.InWorkspace(),
			Source:          &source{Kind: m.Source().Kind, Location: m.Source().Location},
		}
		if v := m.Version(); v != nil {
			p.Version = v.Original()
		}
		if features := g.DeclaredFeatures(m.ID()); len(features) > 0 {
			p.Features = features
		}
		out.Packages = append(out.Packages, p)
	}

	for _, e := range g.Edges() {
		raw := e.Raw()
		d := dependency{
			From:     string(raw.From),
			To:       string(raw.To),
			Kind:     raw.Kind,
			Optional: raw.Optional,
			Rename:   raw.Rename,
			Target:   raw.Platform,
			Features: g.DeclaredEdgeFeatures(e),
		}
		if raw.NoDefaultFeatures {
			off := false
			d.DefaultFeatures = &off
		}
		out.Dependencies = append(out.Dependencies, d)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g as a snapshot to the file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *graph.PackageGraph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
