package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicatePackage is returned by [Graph.Validate] when two packages
	// share both NugetID and LocalVersion.
	ErrDuplicatePackage = errors.New("duplicate package")

	// ErrDanglingEdge is returned by [Graph.Validate] when an edge points at a
	// package that is not part of the graph, or at an empty external label.
	ErrDanglingEdge = errors.New("dangling edge")
)

// Package is a node of the resolved graph.
//
// The zero value is not usable; packages are created by the resolve builder,
// which assigns InternalID.
type Package struct {
	NugetID       string       // Package id as declared in the manifest
	LocalVersion  string       // Declared version; empty for aggregate nodes
	RemoteVersion string       // Latest non-prerelease version on the feed; empty if unresolved
	InternalID    string       // Opaque unique token, used as node id by sinks
	Dependencies  []Dependency // Declared dependencies in feed order
	Edges         []Edge       // Resolved dependencies, parallel to Dependencies
}

// IsAggregate reports whether p is a synthetic per-manifest aggregate node.
func (p *Package) IsAggregate() bool { return p.LocalVersion == "" }

// Key returns the identity of p.
func (p *Package) Key() Key { return Key{ID: p.NugetID, Version: p.LocalVersion} }

// Label returns the display label "id (version)", or the bare id for
// aggregate nodes.
func (p *Package) Label() string {
	if p.IsAggregate() {
		return p.NugetID
	}
	return fmt.Sprintf("%s (%s)", p.NugetID, p.LocalVersion)
}

// Key is the (NugetID, LocalVersion) identity of a package.
type Key struct {
	ID      string
	Version string
}

// Edge is a resolved dependency. Exactly one of Package and External is set.
type Edge struct {
	Dependency Dependency
	Package    *Package // Target package, nil for external targets
	External   string   // External label, empty when Package is set
}

// IsExternal reports whether the edge targets a node outside the graph.
func (e Edge) IsExternal() bool { return e.Package == nil }

// TargetID returns the target package's InternalID or the external label.
func (e Edge) TargetID() string {
	if e.Package != nil {
		return e.Package.InternalID
	}
	return e.External
}

// Graph is the resolved package set of one run, in creation order.
//
// A Graph is immutable once returned by the builder. It is safe for
// concurrent reads.
type Graph struct {
	packages []*Package
	byKey    map[Key]*Package
}

// New creates a graph over pkgs. The slice is used as-is; callers must not
// modify it afterwards. New does not validate; see [Graph.Validate].
func New(pkgs []*Package) *Graph {
	byKey := make(map[Key]*Package, len(pkgs))
	for _, p := range pkgs {
		if _, ok := byKey[p.Key()]; !ok {
			byKey[p.Key()] = p
		}
	}
	return &Graph{packages: pkgs, byKey: byKey}
}

// Packages returns the packages in creation order. The returned slice must
// not be modified.
func (g *Graph) Packages() []*Package { return g.packages }

// Len returns the number of packages, aggregate nodes included.
func (g *Graph) Len() int { return len(g.packages) }

// EdgeCount returns the total number of resolved edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, p := range g.packages {
		n += len(p.Edges)
	}
	return n
}

// Lookup returns the package with the given identity.
func (g *Graph) Lookup(id, version string) (*Package, bool) {
	p, ok := g.byKey[Key{ID: id, Version: version}]
	return p, ok
}

// Externals returns the distinct external labels referenced by edges, in
// first-seen order.
func (g *Graph) Externals() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, p := range g.packages {
		for _, e := range p.Edges {
			if e.IsExternal() && !seen[e.External] {
				seen[e.External] = true
				labels = append(labels, e.External)
			}
		}
	}
	return labels
}

// Classifier returns a [Classifier] indexed over the packages of g.
func (g *Graph) Classifier() *Classifier { return NewClassifier(g.packages) }

// Validate checks the graph invariants: (NugetID, LocalVersion) is unique and
// every edge targets either a package of this graph or a non-empty label.
func (g *Graph) Validate() error {
	ids := make(map[string]*Package, len(g.packages))
	seen := make(map[Key]bool, len(g.packages))
	for _, p := range g.packages {
		if seen[p.Key()] {
			return fmt.Errorf("%w: %s", ErrDuplicatePackage, p.Label())
		}
		seen[p.Key()] = true
		ids[p.InternalID] = p
	}
	for _, p := range g.packages {
		for _, e := range p.Edges {
			if e.IsExternal() {
				if e.External == "" {
					return fmt.Errorf("%w: %s -> <empty>", ErrDanglingEdge, p.Label())
				}
				continue
			}
			if ids[e.Package.InternalID] != e.Package {
				return fmt.Errorf("%w: %s -> %s", ErrDanglingEdge, p.Label(), e.Package.Label())
			}
		}
	}
	return nil
}
