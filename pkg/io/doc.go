// Package io provides JSON import and export of package graph snapshots.
//
// # Overview
//
// A snapshot holds the already-parsed output of a metadata resolver: one
// record per resolved package and one entry per dependency declaration.
// The format is designed for:
//
//   - Feeding the graph builder from tools written in other languages
//   - Caching resolver output so queries can run without re-resolving
//   - Round-trip preservation: import, export, and re-import identically
//
// # JSON Format
//
// The format has two required top-level arrays:
//
//	{
//	  "workspace_root": "/src/app",
//	  "packages": [
//	    {
//	      "id": "app 0.1.0 (path+file:///src/app)",
//	      "name": "app",
//	      "version": "0.1.0",
//	      "source": {"kind": "path", "location": "/src/app"},
//	      "workspace_member": true,
//	      "features": {"default": ["json"], "json": ["dep:serde_json"]}
//	    },
//	    {"id": "serde_json 1.0.120", "name": "serde_json", "version": "1.0.120"}
//	  ],
//	  "dependencies": [
//	    {"from": "app 0.1.0 (path+file:///src/app)", "to": "serde_json 1.0.120", "optional": true}
//	  ]
//	}
//
// # Package Fields
//
// Required:
//   - id: Unique opaque identifier
//   - name: Package name
//
// Optional:
//   - version: Semantic version; omitted for unversioned packages
//   - source: {"kind": "registry" | "path" | "git", "location": "..."}
//   - workspace_member: Whether the package belongs to the workspace
//   - features: Feature table in Cargo syntax
//
// # Dependency Fields
//
// Required:
//   - from, to: Package ids of the dependent and the dependency
//
// Optional:
//   - kind: "normal" (default), "build" or "dev"
//   - optional: Only active when a feature enables it
//   - rename: Name the dependent uses for the dependency
//   - target: cfg() expression or target triple
//   - features: Features of the dependency to enable
//   - default_features: false disables the dependency's default feature
//
// # Import
//
// Use [ImportJSON] to read a snapshot file, or [ReadJSON] to read from any
// io.Reader:
//
//	g, err := io.ImportJSON("metadata.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions build the graph with [graph.Build], so they report the same
// construction errors (duplicate ids, dangling dependencies, malformed
// platform expressions).
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer. Implicit features are not written; they are derived again on
// import.
//
// # Concurrency
//
// Graphs are immutable, so exporting is safe alongside any other reader.
package io
