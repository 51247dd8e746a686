package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/graph"
)

// ReadJSON decodes a metadata snapshot from r and builds the package graph
// it describes.
//
// The input must be a JSON object with "packages" and "dependencies" arrays:
//
//	{
//	  "workspace_root": "/src/app",
//	  "packages": [
//	    {"id": "app 0.1.0", "name": "app", "version": "0.1.0", "workspace_member": true},
//	    {"id": "serde 1.0.200", "name": "serde", "version": "1.0.200"}
//	  ],
//	  "dependencies": [
//	    {"from": "app 0.1.0", "to": "serde 1.0.200"}
//	  ]
//	}
//
// Malformed JSON, unknown source or dependency kinds fail with
// INVALID_INPUT. Everything else is validated by [graph.Build] and fails
// with its error codes. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.PackageGraph, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "decode snapshot")
	}

	records := make([]graph.PackageRecord, len(data.Packages))
	for i, p := range data.Packages {
		records[i] = graph.PackageRecord{
			ID:              graph.PackageID(p.ID),
			Name:            p.Name,
			Version:         p.Version,
			WorkspaceMember: p.WorkspaceMember,
			Features:        p.Features,
		}
		if p.Source != nil {
			records[i].Source = graph.Source{Kind: p.Source.Kind, Location: p.Source.Location}
		}
	}

	edges := make([]graph.RawEdge, len(data.Dependencies))
	for i, d := range data.Dependencies {
		edges[i] = graph.RawEdge{
			From:              graph.PackageID(d.From),
			To:                graph.PackageID(d.To),
			Kind:              d.Kind,
			Optional:          d.Optional,
			Rename:            d.Rename,
			Platform:          d.Target,
			Features:          d.Features,
			NoDefaultFeatures: d.DefaultFeatures != nil && !*d.DefaultFeatures,
		}
	}

	var opts []graph.Option
	if data.WorkspaceRoot != "" {
		opts = append(opts, graph.WithWorkspaceRoot(data.WorkspaceRoot))
	}
	return graph.Build(records, edges, opts...)
}

// ImportJSON reads the snapshot file at path and builds its package graph.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. It returns the same errors as [ReadJSON], plus a wrapped
// [os.PathError] when the file cannot be opened.
func ImportJSON(path string) (*graph.PackageGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
