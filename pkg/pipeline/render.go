package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/nugetviz/pkg/errors"
	"github.com/matzehuels/nugetviz/pkg/graph"
	"github.com/matzehuels/nugetviz/pkg/manifest"
	"github.com/matzehuels/nugetviz/pkg/render"
)

// write renders the whole diagram from res.Graph and, when requested, one
// diagram per manifest built with its own builder.
func (r *Runner) write(ctx context.Context, res *Result, lookups Lookups, sink render.Sink, opts Options) error {
	if err := os.MkdirAll(opts.OutputPath, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create output directory %s", opts.OutputPath)
	}
	names := newNamer()

	if opts.WholeDiagram {
		path := filepath.Join(opts.OutputPath, names.claim(opts.OutputName)+"."+sink.Extension())
		if err := WriteDiagram(ctx, sink, res.Graph, path); err != nil {
			return err
		}
		opts.Logger.Debug("wrote whole diagram", "path", path, "packages", res.Graph.Len())
		res.Files = append(res.Files, path)
	}

	if opts.ProjectDiagrams {
		for _, m := range res.Manifests {
			g, stats, err := Build([]*manifest.Manifest{m}, lookups, opts.Logger)
			if err != nil {
				return err
			}
			path := filepath.Join(opts.OutputPath, names.claim(m.Folder)+"."+sink.Extension())
			if err := WriteDiagram(ctx, sink, g, path); err != nil {
				return err
			}
			opts.Logger.Debug("wrote project diagram", "path", path, "manifest", m.Path, "packages", stats.Packages)
			res.Files = append(res.Files, path)
		}
	}
	return nil
}

// WriteDiagram renders g with sink into a new file at path. A partially
// written file is removed on error.
func WriteDiagram(ctx context.Context, sink render.Sink, g *graph.Graph, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := sink.Render(ctx, g, g.Classifier().Classify, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// namer hands out distinct output base names. Names compare
// case-insensitively so diagrams do not overwrite each other on
// case-insensitive file systems.
type namer struct {
	used map[string]bool
}

func newNamer() *namer { return &namer{used: make(map[string]bool)} }

func (n *namer) claim(base string) string {
	if errors.ValidateOutputName(base) != nil {
		base = "project"
	}
	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s-%d", base, i)
	}
	n.used[strings.ToLower(name)] = true
	return name
}
