package dgml

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/matzehuels/nugetviz/pkg/graph"
)

func sample() *graph.Graph {
	lib := &graph.Package{NugetID: "Lib", LocalVersion: "1.0", RemoteVersion: "1.0", InternalID: "n2"}
	old := &graph.Package{NugetID: "Lib", LocalVersion: "0.9", RemoteVersion: "0.9", InternalID: "n3"}
	app := &graph.Package{
		NugetID: "App", LocalVersion: "1.0", RemoteVersion: "2.0", InternalID: "n1",
		Dependencies: []graph.Dependency{{NugetID: "Lib", Version: "1.0"}, {NugetID: "Ext", Version: "3.0"}},
	}
	app.Edges = []graph.Edge{
		{Dependency: app.Dependencies[0], Package: lib},
		{Dependency: app.Dependencies[1], External: "Ext(3.0)"},
	}
	agg := &graph.Package{NugetID: "Proj", InternalID: "n4", Dependencies: []graph.Dependency{{NugetID: "App", Version: "1.0"}}}
	agg.Edges = []graph.Edge{{Dependency: agg.Dependencies[0], Package: app}}
	return graph.New([]*graph.Package{app, lib, old, agg})
}

func TestWrite(t *testing.T) {
	g := sample()
	var buf bytes.Buffer
	if err := Write(&buf, g, g.Classifier().Classify, Options{}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<DirectedGraph xmlns="http://schemas.microsoft.com/vs/2009/dgml">`,
		`<Node Id="n1" Label="App (1.0)" Background="#FF0000"></Node>`,
		`<Node Id="n2" Label="Lib (1.0)" Background="#FCE428"></Node>`,
		`<Node Id="n4" Label="Proj" Background="#15FF00"></Node>`,
		`<Node Id="Ext(3.0)" Label="Ext(3.0)" Category="External"></Node>`,
		`<Link Source="n1" Target="n2"></Link>`,
		`<Link Source="n1" Target="Ext(3.0)"></Link>`,
		`<Link Source="n4" Target="n1"></Link>`,
		`<Category Id="External"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s\n%s", want, out)
		}
	}
}

func TestWriteParses(t *testing.T) {
	g := sample()
	var buf bytes.Buffer
	if err := Write(&buf, g, g.Classifier().Classify, Options{}); err != nil {
		t.Fatal(err)
	}

	var doc directedGraph
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(doc.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(doc.Nodes))
	}
	if len(doc.Links) != 3 {
		t.Errorf("links = %d, want 3", len(doc.Links))
	}
}

func TestWriteCustomColor(t *testing.T) {
	g := sample()
	var buf bytes.Buffer
	opts := Options{Color: func(graph.Severity) string { return "#000000" }}
	if err := Write(&buf, g, g.Classifier().Classify, opts); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "#FF0000") {
		t.Error("custom colour not applied")
	}
	if strings.Count(buf.String(), `Background="#000000"`) != 4 {
		t.Errorf("want 4 recoloured nodes:\n%s", buf.String())
	}
}

func TestWriteNoExternals(t *testing.T) {
	p := &graph.Package{NugetID: "A", LocalVersion: "1.0", RemoteVersion: "1.0", InternalID: "a"}
	g := graph.New([]*graph.Package{p})
	var buf bytes.Buffer
	if err := Write(&buf, g, g.Classifier().Classify, Options{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Categories") {
		t.Errorf("unexpected category block:\n%s", buf.String())
	}
}

func TestDefaultColor(t *testing.T) {
	tests := []struct {
		s    graph.Severity
		want string
	}{
		{graph.VersionMismatch, "#FF0000"},
		{graph.MultipleVersionsPresent, "#FCE428"},
		{graph.Consistent, "#15FF00"},
	}
	for _, tt := range tests {
		if got := DefaultColor(tt.s); got != tt.want {
			t.Errorf("DefaultColor(%v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}
