package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nugetviz/pkg/cache"
	"github.com/matzehuels/nugetviz/pkg/errors"
	"github.com/matzehuels/nugetviz/pkg/feed/nuget"
	"github.com/matzehuels/nugetviz/pkg/pipeline"
)

// visualizeCommand creates the visualize command.
func (c *CLI) visualizeCommand() *cobra.Command {
	flags := newRunFlags()

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Write dependency diagrams for a folder or manifest",
		Long: `Write dependency diagrams for a folder or manifest.

The visualize command reads packages.config and PackageReference project files,
looks every package up on the NuGet feed and writes a diagram with one node per
package version. Nodes are coloured by conflict:

  version mismatch   the declared version is not the feed's latest release
  multiple versions  another version of the same package is declared elsewhere

By default one diagram covering every manifest is written as packages.dgml.
Use --project-diagrams for one diagram per project folder.`,
		Example: `  nugetviz visualize -l ./src
  nugetviz visualize -l ./src -t svg --project-diagrams
  nugetviz visualize -f App/packages.config --feed https://pkgs.example.com/v3/index.json -u ci`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.loadSettings(cmd)
			if err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), s)
		},
	}

	flags.register(cmd, true)
	return cmd
}

// runVisualize runs the pipeline and prints the written files.
func (c *CLI) runVisualize(ctx context.Context, s settings) error {
	if err := s.pipeline.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, closeFn, err := c.newRunner(&s)
	if err != nil {
		return err
	}
	defer closeFn()

	sw := newStopwatch(c.Logger)
	res, err := runner.Execute(ctx, s.pipeline)
	if err != nil {
		return err
	}
	sw.done(fmt.Sprintf("Resolved %d packages from %d manifests", res.Stats.Packages, len(res.Manifests)))

	printSuccess("Wrote %d diagram(s)", len(res.Files))
	for _, f := range res.Files {
		printFile(f)
	}
	printSeverities(res.Severities)
	return reportFailures(res)
}

// newRunner builds a pipeline runner backed by the NuGet feed and cache
// described by s. It prompts for a missing password. The returned function
// releases the cache.
func (c *CLI) newRunner(s *settings) (*pipeline.Runner, func(), error) {
	if err := errors.ValidateURL(s.feed.URL); err != nil {
		return nil, nil, err
	}
	if err := promptPassword(s, c.Err); err != nil {
		return nil, nil, err
	}

	store, err := openCache(s.cache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "err", err)
		store = cache.NewNullCache()
	}
	s.feed.Cache = store
	registerLogHooks(c.Logger)

	runner := pipeline.NewRunner(nuget.NewClient(s.feed), c.Logger)
	runner.Progress = newLookupProgress(c.Err)
	s.pipeline.Logger = c.Logger
	return runner, func() { _ = store.Close() }, nil
}

// reportFailures prints skipped manifests and feed failures. Skipped
// manifests make the command fail after its output is written.
func reportFailures(res *pipeline.Result) error {
	if res.Lookups.Failed > 0 {
		printWarning("%d feed lookup(s) failed; affected packages are shown as unresolved", res.Lookups.Failed)
	}
	if len(res.Failed) == 0 {
		return nil
	}
	for _, f := range res.Failed {
		printError("%s", f.Path)
		printDetail("%s", errors.UserMessage(f.Err))
	}
	return errors.New(errors.ErrCodeManifestUnreadable, "%d manifest(s) could not be read", len(res.Failed))
}
