// Package graphviz renders package graphs as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] writes the graph in DOT format: packages are rounded, filled boxes
// keyed by InternalID and coloured by severity, external dependencies are
// unfilled boxes keyed by their label. The DOT text can be saved as-is or
// laid out and rasterised through the embedded Graphviz library:
//
//	dot := graphviz.ToDOT(g, g.Classifier().Classify, graphviz.Options{})
//	svg, err := graphviz.RenderSVG(ctx, dot)
//	png, err := graphviz.RenderPNG(ctx, dot)
//
// # Colours
//
// The default palette uses Graphviz colour names: red for version
// mismatches, forestgreen for packages present in several versions and white
// otherwise. Override it with [Options.Color].
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nugetviz/pkg/graph"
)

// Default node colours.
const (
	ColorVersionMismatch  = "red"
	ColorMultipleVersions = "forestgreen"
	ColorConsistent       = "white"
)

// DefaultColor returns the default fill colour for s.
func DefaultColor(s graph.Severity) string {
	switch s {
	case graph.VersionMismatch:
		return ColorVersionMismatch
	case graph.MultipleVersionsPresent:
		return ColorMultipleVersions
	default:
		return ColorConsistent
	}
}

// Options configures DOT output.
type Options struct {
	// Color maps a severity to a fill colour. Nil uses [DefaultColor].
	Color func(graph.Severity) string

	// RankDir sets the layout direction (TB, LR, BT, RL). Empty leaves the
	// Graphviz default.
	RankDir string
}

// ToDOT converts g to Graphviz DOT format.
func ToDOT(g *graph.Graph, classify graph.ClassifyFunc, opts Options) string {
	color := opts.Color
	if color == nil {
		color = DefaultColor
	}

	var buf bytes.Buffer
	buf.WriteString("digraph packages {\n")
	if opts.RankDir != "" {
		fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\"];\n")
	buf.WriteString("\n")

	for _, p := range g.Packages() {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", p.InternalID, p.Label(), color(classify(p)))
	}
	for _, label := range g.Externals() {
		fmt.Fprintf(&buf, "  %q [label=%q, style=rounded];\n", label, label)
	}

	buf.WriteString("\n")
	for _, p := range g.Packages() {
		for _, e := range p.Edges {
			fmt.Fprintf(&buf, "  %q -> %q;\n", p.InternalID, e.TargetID())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT graph and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG lays out a DOT graph and renders it to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", strings.ToUpper(string(format)), err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz point-based svg header with one
// sized from the viewBox so browsers scale the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
