package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetviz/pkg/feed"
	"github.com/matzehuels/nugetviz/pkg/manifest"
	"github.com/matzehuels/nugetviz/pkg/observability"
)

// Progress receives feed lookup progress. Calls are serialised.
type Progress interface {
	Start(total int)
	Advance(id string, err error)
	Finish()
}

// Runner encapsulates pipeline execution against one feed.
//
// The Runner is stateless except for the feed and logger; it doesn't store
// pipeline results. Multiple goroutines can use the same Runner with
// different options as long as Progress tolerates it.
type Runner struct {
	Feed     feed.Feed
	Logger   *log.Logger
	Progress Progress // optional
}

// NewRunner creates a runner for f. If logger is nil, log.Default() is used.
func NewRunner(f feed.Feed, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Feed: f, Logger: logger}
}

// Execute runs the complete pipeline and writes the requested diagrams.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	sink, err := opts.Sink()
	if err != nil {
		return nil, err
	}

	res, lookups, err := r.analyze(ctx, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = r.write(ctx, res, lookups, sink, opts)
	res.Timings.Render = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, observability.StageRender, len(res.Files), res.Timings.Render, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("wrote diagrams",
		"files", len(res.Files),
		"format", sink.Format(),
		"duration", res.Timings.Render)
	return res, nil
}

// Analyze runs every stage except rendering and returns the whole graph.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res, _, err := r.analyze(ctx, opts)
	return res, err
}

func (r *Runner) analyze(ctx context.Context, opts Options) (*Result, Lookups, error) {
	res := &Result{}
	hooks := observability.Pipeline()

	// Stage 1+2: Discover and parse
	start := time.Now()
	manifests, failed, err := r.Load(ctx, opts)
	res.Timings.Load = time.Since(start)
	hooks.OnStageComplete(ctx, observability.StageLoad, len(manifests), res.Timings.Load, err)
	if err != nil {
		return nil, nil, err
	}
	res.Manifests, res.Failed = manifests, failed

	opts.Logger.Info("loaded manifests",
		"manifests", len(manifests),
		"skipped", len(failed),
		"duration", res.Timings.Load)

	// Stage 3: Fetch
	start = time.Now()
	lookups, stats, err := r.Fetch(ctx, manifests, opts)
	res.Timings.Fetch = time.Since(start)
	hooks.OnStageComplete(ctx, observability.StageFetch, stats.Total, res.Timings.Fetch, err)
	if err != nil {
		return nil, nil, err
	}
	res.Lookups = stats

	opts.Logger.Info("fetched feed records",
		"packages", stats.Total,
		"not_found", stats.NotFound,
		"failed", stats.Failed,
		"duration", res.Timings.Fetch)

	// Stage 4: Build
	start = time.Now()
	g, bstats, err := Build(manifests, lookups, opts.Logger)
	res.Timings.Build = time.Since(start)
	hooks.OnStageComplete(ctx, observability.StageBuild, bstats.Packages, res.Timings.Build, err)
	if err != nil {
		return nil, nil, err
	}
	res.Graph, res.Stats = g, bstats
	res.Severities = g.Classifier().Count(g.Packages())

	opts.Logger.Info("built graph",
		"packages", bstats.Packages,
		"aggregates", bstats.Aggregates,
		"externals", bstats.Externals,
		"duration", res.Timings.Build)

	return res, lookups, nil
}

// Fetch looks up every distinct package id of manifests on the runner's
// feed. Failed lookups are logged and kept in the result; only context
// cancellation aborts.
func (r *Runner) Fetch(ctx context.Context, manifests []*manifest.Manifest, opts Options) (Lookups, LookupStats, error) {
	r.applyLogger(&opts)
	logger := opts.Logger

	ids := PackageIDs(manifests)
	stats := LookupStats{Total: len(ids)}
	if r.Progress != nil {
		r.Progress.Start(len(ids))
		defer r.Progress.Finish()
	}

	results, err := feed.Fetch(ctx, r.Feed, ids, opts.Concurrency, func(id string, res feed.Result) {
		switch {
		case res.Err == nil:
		case errors.Is(res.Err, feed.ErrNotFound):
			stats.NotFound++
			logger.Debug("package not on feed", "package", id)
		default:
			stats.Failed++
			logger.Warn("feed lookup failed", "package", id, "err", res.Err)
		}
		if r.Progress != nil {
			r.Progress.Advance(id, res.Err)
		}
	})
	if err != nil {
		return nil, stats, err
	}

	lookups := make(Lookups, len(results))
	for id, res := range results {
		lookups[normalize(id)] = res
	}
	return lookups, stats, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
}
