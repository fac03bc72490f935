package graphviz

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/nugetviz/pkg/graph"
)

func sample() *graph.Graph {
	lib := &graph.Package{NugetID: "Lib", LocalVersion: "1.0", RemoteVersion: "1.0", InternalID: "n2"}
	app := &graph.Package{
		NugetID: "App", LocalVersion: "1.0", RemoteVersion: "2.0", InternalID: "n1",
		Dependencies: []graph.Dependency{{NugetID: "Lib", Version: "1.0"}, {NugetID: "Ext"}},
	}
	app.Edges = []graph.Edge{
		{Dependency: app.Dependencies[0], Package: lib},
		{Dependency: app.Dependencies[1], External: "Ext"},
	}
	return graph.New([]*graph.Package{app, lib})
}

func TestToDOT(t *testing.T) {
	g := sample()
	dot := ToDOT(g, g.Classifier().Classify, Options{})

	for _, want := range []string{
		"digraph packages {",
		`node [shape=box, style="rounded,filled"];`,
		`"n1" [label="App (1.0)", fillcolor="red"];`,
		`"n2" [label="Lib (1.0)", fillcolor="white"];`,
		`"Ext" [label="Ext", style=rounded];`,
		`"n1" -> "n2";`,
		`"n1" -> "Ext";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "rankdir") {
		t.Error("ToDOT() should not set rankdir by default")
	}
}

func TestToDOTOptions(t *testing.T) {
	g := sample()
	dot := ToDOT(g, g.Classifier().Classify, Options{
		RankDir: "LR",
		Color:   func(graph.Severity) string { return "blue" },
	})
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Error("ToDOT() missing rankdir")
	}
	if strings.Count(dot, `fillcolor="blue"`) != 2 {
		t.Errorf("custom colour not applied:\n%s", dot)
	}
}

func TestToDOTQuotesLabels(t *testing.T) {
	p := &graph.Package{NugetID: `Odd"Name`, LocalVersion: "1.0", RemoteVersion: "1.0", InternalID: "x"}
	g := graph.New([]*graph.Package{p})
	dot := ToDOT(g, g.Classifier().Classify, Options{})
	if !strings.Contains(dot, `label="Odd\"Name (1.0)"`) {
		t.Errorf("label not escaped:\n%s", dot)
	}
}

func TestRender(t *testing.T) {
	g := sample()
	dot := ToDOT(g, g.Classifier().Classify, Options{})

	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("App (1.0)")) {
		t.Errorf("RenderSVG output unexpected:\n%s", svg)
	}

	png, err := RenderPNG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderPNG error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("RenderPNG output is not a PNG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if strings.Contains(out, "pt") {
		t.Errorf("point units not removed: %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed svg without viewBox")
	}
}

func TestDefaultColor(t *testing.T) {
	tests := []struct {
		s    graph.Severity
		want string
	}{
		{graph.VersionMismatch, "red"},
		{graph.MultipleVersionsPresent, "forestgreen"},
		{graph.Consistent, "white"},
	}
	for _, tt := range tests {
		if got := DefaultColor(tt.s); got != tt.want {
			t.Errorf("DefaultColor(%v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}
