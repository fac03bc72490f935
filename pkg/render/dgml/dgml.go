// Package dgml writes package graphs as DGML (Directed Graph Markup
// Language) documents, the format Visual Studio's graph viewer opens.
//
// Every package becomes a Node keyed by its InternalID and filled with the
// colour of its severity. Dependencies with no package in the graph become
// nodes of the "External" category keyed by their external label.
//
//	err := dgml.Write(w, g, g.Classifier().Classify, dgml.Options{})
package dgml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/matzehuels/nugetviz/pkg/graph"
)

// Namespace is the DGML XML namespace.
const Namespace = "http://schemas.microsoft.com/vs/2009/dgml"

// ExternalCategory marks nodes that are not part of the resolved graph.
const ExternalCategory = "External"

// Default node colours.
const (
	ColorVersionMismatch  = "#FF0000"
	ColorMultipleVersions = "#FCE428"
	ColorConsistent       = "#15FF00"
)

// DefaultColor returns the default background for s.
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

// Options configures DGML output.
type Options struct {
	// Color maps a severity to a node background. Nil uses [DefaultColor].
	Color func(graph.Severity) string
}

type directedGraph struct {
	XMLName    xml.Name    `xml:"http://schemas.microsoft.com/vs/2009/dgml DirectedGraph"`
	Nodes      []node      `xml:"Nodes>Node"`
	Links      []link      `xml:"Links>Link"`
	Categories *categories `xml:"Categories"`
}

type categories struct {
	Items []category `xml:"Category"`
}

type node struct {
	ID         string `xml:"Id,attr"`
	Label      string `xml:"Label,attr"`
	Background string `xml:"Background,attr,omitempty"`
	Category   string `xml:"Category,attr,omitempty"`
}

type link struct {
	Source string `xml:"Source,attr"`
	Target string `xml:"Target,attr"`
}

type category struct {
	ID    string `xml:"Id,attr"`
	Label string `xml:"Label,attr,omitempty"`
}

// build assembles the document model for g.
func build(g *graph.Graph, classify graph.ClassifyFunc, opts Options) directedGraph {
	color := opts.Color
	if color == nil {
		color = DefaultColor
	}

	doc := directedGraph{
		Nodes: make([]node, 0, g.Len()),
		Links: make([]link, 0, g.EdgeCount()),
	}
	for _, p := range g.Packages() {
		doc.Nodes = append(doc.Nodes, node{
			ID:         p.InternalID,
			Label:      p.Label(),
			Background: color(classify(p)),
		})
		for _, e := range p.Edges {
			doc.Links = append(doc.Links, link{Source: p.InternalID, Target: e.TargetID()})
		}
	}

	externals := g.Externals()
	for _, label := range externals {
		doc.Nodes = append(doc.Nodes, node{ID: label, Label: label, Category: ExternalCategory})
	}
	if len(externals) > 0 {
		doc.Categories = &categories{Items: []category{{ID: ExternalCategory, Label: "Not in solution"}}}
	}
	return doc
}

// Write encodes g as an indented DGML document with an XML declaration.
func Write(w io.Writer, g *graph.Graph, classify graph.ClassifyFunc, opts Options) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(build(g, classify, opts)); err != nil {
		return fmt.Errorf("encode dgml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
