package io

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/graph"
	"github.com/matzehuels/pkggraph/pkg/graph/query"
	"github.com/matzehuels/pkggraph/pkg/platform"
)

const sampleSnapshot = `{
  "workspace_root": "/src/app",
  "packages": [
    {
      "id": "app",
      "name": "app",
      "version": "0.1.0",
      "source": {"kind": "path", "location": "/src/app"},
      "workspace_member": true,
      "features": {"default": ["json"], "json": ["dep:serde_json"]}
    },
    {"id": "serde_json", "name": "serde_json", "version": "1.0.120"},
    {"id": "winapi", "name": "winapi", "version": "0.3.9"},
    {"id": "log", "name": "log", "version": "0.4.22"}
  ],
  "dependencies": [
    {"from": "app", "to": "serde_json", "optional": true},
    {"from": "app", "to": "winapi", "target": "cfg(windows)", "default_features": false},
    {"from": "app", "to": "log", "kind": "dev", "rename": "logger", "optional": true}
  ]
}`

func TestReadJSON(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if g.Len() != 4 || g.EdgeCount() != 3 {
		t.Fatalf("graph size = %d packages, %d edges, want 4, 3", g.Len(), g.EdgeCount())
	}
	if g.WorkspaceRoot() != "/src/app" {
		t.Errorf("WorkspaceRoot() = %q", g.WorkspaceRoot())
	}

	app, _ := g.Package("app")
	if !app.InWorkspace() {
		t.Error("app should be a workspace member")
	}
	if app.Source().Kind != graph.SourcePath || app.Source().Location != "/src/app" {
		t.Errorf("Source() = %v", app.Source())
	}
	if !app.IsImplicitFeature("logger") {
		t.Error("optional renamed dependency should get an implicit feature")
	}

	edges := g.Edges()
	if edges[1].Platform() == nil || edges[1].Platform().String() != "cfg(windows)" {
		t.Errorf("edge 1 platform = %v", edges[1].Platform())
	}
	if edges[1].DefaultFeatures() {
		t.Error("edge 1 should not enable default features")
	}
	if !edges[0].DefaultFeatures() {
		t.Error("edge 0 should enable default features")
	}
	if edges[2].Kind() != graph.KindDevelopment || edges[2].DepName() != "logger" {
		t.Errorf("edge 2 = %v, dep name %q", edges[2], edges[2].DepName())
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  pkgerrors.Code
	}{
		{"Malformed", `{"packages": [`, pkgerrors.ErrCodeInvalidInput},
		{"UnknownKind", `{"packages": [{"id": "a", "name": "a"}], "dependencies": [{"from": "a", "to": "a", "kind": "test"}]}`, pkgerrors.ErrCodeInvalidInput},
		{"UnknownSource", `{"packages": [{"id": "a", "name": "a", "source": {"kind": "ftp"}}]}`, pkgerrors.ErrCodeInvalidInput},
		{"Duplicate", `{"packages": [{"id": "a", "name": "a"}, {"id": "a", "name": "a"}]}`, pkgerrors.ErrCodeDuplicatePackage},
		{"Dangling", `{"packages": [{"id": "a", "name": "a"}], "dependencies": [{"from": "a", "to": "b"}]}`, pkgerrors.ErrCodeUnknownDependency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if got := pkgerrors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if strings.Contains(buf.String(), "dep:logger") {
		t.Error("implicit features should not be exported")
	}

	g2, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(exported) error = %v", err)
	}
	if !slices.Equal(g.PackageIDs(), g2.PackageIDs()) {
		t.Errorf("PackageIDs() = %v, want %v", g2.PackageIDs(), g.PackageIDs())
	}
	if g2.WorkspaceRoot() != g.WorkspaceRoot() {
		t.Errorf("WorkspaceRoot() = %q, want %q", g2.WorkspaceRoot(), g.WorkspaceRoot())
	}
	for i, e := range g.Edges() {
		e2, _ := g2.Edge(e.ID())
		if e.String() != e2.String() || e.DepName() != e2.DepName() || e.DefaultFeatures() != e2.DefaultFeatures() {
			t.Errorf("edge %d = %v, want %v", i, e2, e)
		}
	}
	for _, m := range g.Packages() {
		m2, _ := g2.Package(m.ID())
		if !slices.Equal(m.FeatureNames(), m2.FeatureNames()) {
			t.Errorf("%s FeatureNames() = %v, want %v", m.ID(), m2.FeatureNames(), m.FeatureNames())
		}
		if m.String() != m2.String() {
			t.Errorf("package = %v, want %v", m2, m)
		}
	}
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "metadata.json")
	if err := os.WriteFile(in, []byte(sampleSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := ImportJSON(in)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	out := filepath.Join(dir, "out.json")
	if err := ExportJSON(g, out); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	if _, err := ImportJSON(out); err != nil {
		t.Errorf("ImportJSON(exported) error = %v", err)
	}

	if _, err := ImportJSON(filepath.Join(dir, "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ImportJSON(missing) error = %v, want not-exist", err)
	}
}

func TestWriteJSON_Subgraph(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	// Dropping app -> serde_json leaves the "json" feature pointing nowhere.
	sub := g.Subgraph([]graph.PackageID{"app", "winapi", "log"}, nil)

	var buf bytes.Buffer
	if err := WriteJSON(sub, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if strings.Contains(buf.String(), "dep:serde_json") {
		t.Error("targets of dropped dependencies should not be exported")
	}

	g2, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(subgraph) error = %v", err)
	}
	app, _ := g2.Package("app")
	if targets, ok := app.FeatureTargets("json"); !ok || len(targets) != 0 {
		t.Errorf("json targets = %v, %v, want empty feature", targets, ok)
	}
}

const platformSnapshot = `{
  "packages": [
    {"id": "app", "name": "app", "version": "0.1.0", "features": {"json": ["serde"], "tls": ["dep:rustls"]}},
    {"id": "serde", "name": "serde", "version": "1.0.200"},
    {"id": "rustls", "name": "rustls", "version": "0.23.0"},
    {"id": "log", "name": "log", "version": "0.4.22"}
  ],
  "dependencies": [
    {"from": "app", "to": "serde", "optional": true, "target": "cfg(windows)"},
    {"from": "app", "to": "rustls", "optional": true, "target": "cfg(windows)"},
    {"from": "app", "to": "rustls", "kind": "build"},
    {"from": "app", "to": "log"}
  ]
}`

func TestWriteJSON_FilteredClosure(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(platformSnapshot))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	linux := platform.MustNew("x86_64-unknown-linux-gnu", platform.NoFeatures())
	res, err := query.Dependencies(g, []graph.PackageID{"app"}, graph.OnPlatform(linux, true))
	if err != nil {
		t.Fatalf("Dependencies() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(res.Subgraph(), &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	g2, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(filtered closure) error = %v", err)
	}

	if g2.Len() != 3 || g2.EdgeCount() != 2 {
		t.Errorf("closure = %d packages, %d edges, want 3, 2", g2.Len(), g2.EdgeCount())
	}
	app, _ := g2.Package("app")
	for _, name := range []string{"json", "tls"} {
		if targets, ok := app.FeatureTargets(name); !ok || len(targets) != 0 {
			t.Errorf("%s targets = %v, %v, want empty feature", name, targets, ok)
		}
	}
	if app.HasFeature("serde") {
		t.Error("implicit serde feature should not survive without its edge")
	}
}

func TestImportExampleWorkspace(t *testing.T) {
	g, err := ImportJSON(filepath.Join("..", "..", "examples", "workspace.json"))
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if g.Len() != 12 || g.EdgeCount() != 16 {
		t.Errorf("graph size = %d packages, %d edges, want 12, 16", g.Len(), g.EdgeCount())
	}
	if got := len(g.WorkspaceMembers()); got != 3 {
		t.Errorf("WorkspaceMembers() = %d, want 3", got)
	}
	relay, ok := g.WorkspaceMember("relay")
	if !ok {
		t.Fatal("relay should be a workspace member")
	}
	if !relay.IsImplicitFeature("tracing") {
		t.Error("optional tracing dependency should get an implicit feature")
	}
}
