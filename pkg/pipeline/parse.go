package pipeline

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetviz/pkg/feed"
	"github.com/matzehuels/nugetviz/pkg/graph"
	"github.com/matzehuels/nugetviz/pkg/manifest"
	"github.com/matzehuels/nugetviz/pkg/resolve"
)

// Load discovers and parses the manifests named by opts. In folder mode a
// manifest that cannot be read is logged and returned in failed; the others
// are still used. In file mode it is an error.
func (r *Runner) Load(ctx context.Context, opts Options) (manifests []*manifest.Manifest, failed []ManifestError, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	logger := opts.Logger

	if opts.File != "" {
		m, err := manifest.Parse(opts.File)
		if err != nil {
			return nil, nil, err
		}
		return []*manifest.Manifest{m}, nil, nil
	}

	paths, err := manifest.Discover(opts.Folder, opts.Recursive)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("discovered manifests", "folder", opts.Folder, "count", len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		m, err := manifest.Parse(path)
		if err != nil {
			logger.Error("skipping manifest", "path", path, "err", err)
			failed = append(failed, ManifestError{Path: path, Err: err})
			continue
		}
		logger.Debug("parsed manifest", "path", path, "type", m.Type, "entries", len(m.Entries))
		manifests = append(manifests, m)
	}
	return manifests, failed, nil
}

// PackageIDs returns the distinct package ids declared by manifests in
// first-seen order. Ids are compared case-insensitively.
func PackageIDs(manifests []*manifest.Manifest) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range manifests {
		for _, e := range m.Entries {
			key := normalize(e.ID)
			if !seen[key] {
				seen[key] = true
				ids = append(ids, e.ID)
			}
		}
	}
	return ids
}

// Lookups holds feed results keyed by lower-cased package id.
type Lookups map[string]feed.Result

// Get returns the result for id, ignoring case.
func (l Lookups) Get(id string) (feed.Result, bool) {
	res, ok := l[normalize(id)]
	return res, ok
}

func normalize(id string) string { return strings.ToLower(id) }

// rawEntries pairs the entries of m with their lookup results.
func rawEntries(m *manifest.Manifest, lookups Lookups) []resolve.RawEntry {
	entries := make([]resolve.RawEntry, len(m.Entries))
	for i, e := range m.Entries {
		res, ok := lookups.Get(e.ID)
		if !ok {
			res.Err = feed.ErrNotFound
		}
		entries[i] = resolve.RawEntry{NugetID: e.ID, Version: e.Version, Record: res.Record, Err: res.Err}
	}
	return entries
}

// Build resolves manifests into one graph with a fresh builder.
func Build(manifests []*manifest.Manifest, lookups Lookups, logger *log.Logger) (*graph.Graph, resolve.Stats, error) {
	b := resolve.NewBuilder(resolve.WithLogger(logger))
	for _, m := range manifests {
		if err := b.AddManifest(resolve.Manifest{Folder: m.Folder, Entries: rawEntries(m, lookups)}); err != nil {
			return nil, b.Stats(), err
		}
	}
	g, err := b.Resolve()
	return g, b.Stats(), err
}
