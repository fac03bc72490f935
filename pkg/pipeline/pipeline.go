// Package pipeline provides the end-to-end nugetviz run used by the CLI.
//
// This package implements the complete discover → parse → fetch → build →
// render pipeline. Each stage can be run on its own, which is how the
// report command reuses everything but the file output.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Discover: find packages.config and project files below a folder
//  2. Parse: read each manifest into entries
//  3. Fetch: look up every distinct package id on the feed, in parallel
//  4. Build: resolve entries and feed records into a package graph
//  5. Render: write the whole diagram and/or one diagram per project
//
// # Usage
//
//	runner := pipeline.NewRunner(nugetClient, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Folder = "./src"
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Files)
//
// Run individual stages:
//
//	manifests, failed, err := runner.Load(ctx, opts)
//	lookups, err := runner.Fetch(ctx, manifests, opts.Concurrency)
//	g, stats, err := pipeline.Build(manifests, lookups, opts.Logger)
package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetviz/pkg/errors"
	"github.com/matzehuels/nugetviz/pkg/feed"
	"github.com/matzehuels/nugetviz/pkg/graph"
	"github.com/matzehuels/nugetviz/pkg/manifest"
	"github.com/matzehuels/nugetviz/pkg/render"
	"github.com/matzehuels/nugetviz/pkg/resolve"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutputType is the diagram format written when none is given.
	DefaultOutputType = render.FormatDGML

	// DefaultOutputName is the base name of the whole-solution diagram.
	DefaultOutputName = "packages"

	// DefaultOutputPath is the directory diagrams are written to.
	DefaultOutputPath = "."
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Input: exactly one of Folder and File.
	Folder    string
	File      string
	Recursive bool // Search Folder's subdirectories

	// Output
	OutputType      string // dgml, graphviz (dot), svg or png
	OutputPath      string // Directory for generated files
	OutputName      string // Base name of the whole diagram
	WholeDiagram    bool   // One diagram across all manifests
	ProjectDiagrams bool   // One diagram per manifest
	Palette         render.Palette
	RankDir         string

	// Fetch
	Concurrency int

	// Runtime options
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns the options the CLI starts from: recursive search
// and a whole diagram named "packages" in DGML.
func DefaultOptions() Options {
	return Options{
		Recursive:    true,
		OutputType:   DefaultOutputType,
		OutputPath:   DefaultOutputPath,
		OutputName:   DefaultOutputName,
		WholeDiagram: true,
		Concurrency:  feed.DefaultConcurrency,
	}
}

// ValidateAndSetDefaults checks the options and fills empty fields.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	switch {
	case o.Folder == "" && o.File == "":
		return errors.New(errors.ErrCodeInvalidInput, "you need to specify either folder or file")
	case o.Folder != "" && o.File != "":
		return errors.New(errors.ErrCodeInvalidInput, "you cannot specify both folder and file")
	case !o.WholeDiagram && !o.ProjectDiagrams:
		return errors.New(errors.ErrCodeInvalidInput, "you must specify whole diagram and/or project diagrams")
	}

	if err := o.checkInput(); err != nil {
		return err
	}

	if o.OutputType == "" {
		o.OutputType = DefaultOutputType
	}
	name, ok := render.Canonical(o.OutputType)
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown output type %q", o.OutputType)
	}
	o.OutputType = name

	if o.OutputPath == "" {
		o.OutputPath = DefaultOutputPath
	}
	if o.OutputName == "" {
		o.OutputName = DefaultOutputName
	}
	if err := errors.ValidateOutputName(o.OutputName); err != nil {
		return err
	}
	if o.Concurrency <= 0 {
		o.Concurrency = feed.DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	o.validated = true
	return nil
}

func (o *Options) checkInput() error {
	path, wantDir := o.File, false
	if o.Folder != "" {
		path, wantDir = o.Folder, true
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, err, "could not find %s", path)
	}
	switch {
	case wantDir && !info.IsDir():
		return errors.New(errors.ErrCodeInvalidInput, "%s is not a folder", path)
	case !wantDir && info.IsDir():
		return errors.New(errors.ErrCodeInvalidInput, "%s is a folder, not a manifest file", path)
	case !wantDir:
		if _, err := manifest.Detect(path); err != nil {
			return err
		}
	}
	return nil
}

// Sink returns the render sink selected by the options.
func (o *Options) Sink() (render.Sink, error) {
	return render.New(o.OutputType, render.Options{Palette: o.Palette, RankDir: o.RankDir})
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Files lists written diagrams: the whole diagram first, then one per
	// project in manifest order.
	Files []string

	// Manifests are the manifests that parsed successfully.
	Manifests []*manifest.Manifest

	// Failed lists manifests skipped because they could not be read.
	Failed []ManifestError

	// Graph is the graph over all manifests.
	Graph *graph.Graph

	// Stats are the builder counters for Graph.
	Stats resolve.Stats

	// Severities tallies the classification of every package in Graph.
	Severities map[graph.Severity]int

	// Lookups counts feed lookups by outcome.
	Lookups LookupStats

	// Timings records how long each stage took.
	Timings Timings
}

// ManifestError is a manifest that was skipped.
type ManifestError struct {
	Path string
	Err  error
}

func (e ManifestError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e ManifestError) Unwrap() error { return e.Err }

// LookupStats counts feed lookups.
type LookupStats struct {
	Total    int // Distinct ids looked up
	NotFound int // Ids the feed does not know
	Failed   int // Lookups that errored
}

// Timings contains per-stage durations.
type Timings struct {
	Load   time.Duration
	Fetch  time.Duration
	Build  time.Duration
	Render time.Duration
}
