// Package render writes resolved package graphs to diagram files.
//
// # Overview
//
// A [Sink] turns a [graph.Graph] plus a severity classifier into bytes in
// one output format. Sinks are chosen by name with [New]:
//
//	sink, err := render.New("dgml", render.Options{})
//	err = sink.Render(ctx, g, g.Classifier().Classify, f)
//
// # Formats
//
//   - dgml: Visual Studio DGML document (in [dgml] subpackage)
//   - graphviz (alias dot): Graphviz DOT source (in [graphviz] subpackage)
//   - svg, png: the DOT graph laid out and rendered through Graphviz
//
// # Colours
//
// Each severity maps to a node colour through a [Palette]. DGML and the
// Graphviz formats have different default palettes; fields left empty in
// [Options.Palette] fall back to the format's default.
//
// [dgml]: github.com/matzehuels/nugetviz/pkg/render/dgml
// [graphviz]: github.com/matzehuels/nugetviz/pkg/render/graphviz
package render
