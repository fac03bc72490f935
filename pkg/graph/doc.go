// Package graph defines the resolved package graph and its conflict classifier.
//
// # Overview
//
// A [Graph] is an ordered set of [Package] values discovered in one run.
// Every package is identified by the pair (NugetID, LocalVersion), which is
// unique within a graph. Packages carry the dependencies reported by the feed
// and, once resolved, one [Edge] per dependency pointing either at another
// package of the graph or at an external label.
//
// Packages with an empty LocalVersion are synthetic aggregate nodes: one per
// manifest folder, pointing at the references that were not matched by any
// other package of that manifest.
//
// # External Targets
//
// A dependency that does not resolve to a package of the graph is rendered as
// an external node. Its label is built by [ExternalLabel]:
//
//	Newtonsoft.Json(13.0.1)   // pinned
//	Newtonsoft.Json           // unpinned
//
// # Classification
//
// [Classify] tags a package with a [Severity] used for colouring:
//
//  1. VersionMismatch: local version differs from the feed's latest version.
//  2. MultipleVersionsPresent: another version of the same id is in the graph.
//  3. Consistent: neither of the above.
//
// The first matching rule wins. All comparisons are ordinal string equality;
// no semantic version normalisation is applied.
//
// For repeated lookups over the same graph use [NewClassifier], which indexes
// versions by id once.
package graph
