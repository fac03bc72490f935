package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/nugetviz/pkg/cache"
	"github.com/matzehuels/nugetviz/pkg/config"
	"github.com/matzehuels/nugetviz/pkg/errors"
	"github.com/matzehuels/nugetviz/pkg/feed/nuget"
	"github.com/matzehuels/nugetviz/pkg/pipeline"
	"github.com/matzehuels/nugetviz/pkg/render"
)

// runFlags holds the flags shared by visualize and report.
type runFlags struct {
	configPath string

	// Input
	folder    string
	file      string
	recursive bool

	// Output (visualize only)
	outputType string
	outputPath string
	outputName string
	whole      bool
	project    bool
	rankDir    string

	// Feed
	feedURL     string
	username    string
	password    string
	concurrency int
	timeout     time.Duration
	noCache     bool
	refresh     bool
}

func newRunFlags() *runFlags {
	d := pipeline.DefaultOptions()
	return &runFlags{
		recursive:   d.Recursive,
		outputType:  d.OutputType,
		outputPath:  d.OutputPath,
		outputName:  d.OutputName,
		whole:       d.WholeDiagram,
		project:     d.ProjectDiagrams,
		feedURL:     nuget.DefaultURL,
		concurrency: d.Concurrency,
	}
}

// register adds the flags to cmd. Output flags are only added when output
// is true.
func (f *runFlags) register(cmd *cobra.Command, output bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "config file (default: ./nugetviz.toml, then the user config dir)")

	fs.StringVarP(&f.folder, "folder", "l", "", "folder to search for packages.config and project files")
	fs.StringVarP(&f.file, "file", "f", "", "single packages.config or project file")
	fs.BoolVarP(&f.recursive, "recursive", "r", f.recursive, "search below project folders (immediate subfolders are always searched)")

	if output {
		fs.StringVarP(&f.outputType, "output-type", "t", f.outputType, "diagram format: dgml, graphviz (dot), svg, png")
		fs.StringVar(&f.outputPath, "output-path", f.outputPath, "directory for generated diagrams")
		fs.StringVarP(&f.outputName, "output", "o", f.outputName, "file name (without extension) of the whole diagram")
		fs.BoolVar(&f.whole, "whole-diagram", f.whole, "write one diagram for all manifests")
		fs.BoolVar(&f.project, "project-diagrams", f.project, "write one diagram per manifest")
		fs.StringVar(&f.rankDir, "rankdir", "", "Graphviz layout direction: TB, LR, BT, RL")
		_ = cmd.RegisterFlagCompletionFunc("output-type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return render.Formats, cobra.ShellCompDirectiveNoFileComp
		})
	}

	fs.StringVar(&f.feedURL, "feed", f.feedURL, "NuGet v3 service index URL")
	fs.StringVarP(&f.username, "username", "u", "", "feed user name")
	fs.StringVar(&f.password, "password", "", "feed password (prompted when a user name is given without one)")
	fs.IntVar(&f.concurrency, "concurrency", f.concurrency, "parallel feed lookups")
	fs.DurationVar(&f.timeout, "timeout", 0, "feed request timeout (default 10s)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the feed response cache")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached feed responses")
}

// settings is the result of merging flags over the config file.
type settings struct {
	pipeline pipeline.Options
	feed     nuget.Options
	cache    cache.Options
}

// resolve merges the config file into the flags. Flags set on the command
// line win over the file; the file wins over flag defaults.
func (f *runFlags) resolve(cmd *cobra.Command, cfg *config.Config) settings {
	changed := cmd.Flags().Changed
	str := func(flag, flagVal, cfgVal string) string {
		if !changed(flag) && cfgVal != "" {
			return cfgVal
		}
		return flagVal
	}
	boolean := func(flag string, flagVal bool, cfgVal *bool) bool {
		if !changed(flag) && cfgVal != nil {
			return *cfgVal
		}
		return flagVal
	}

	opts := pipeline.DefaultOptions()
	opts.Folder = f.folder
	opts.File = f.file
	opts.Recursive = f.recursive
	opts.OutputType = str("output-type", f.outputType, cfg.Output.Type)
	opts.OutputPath = str("output-path", f.outputPath, cfg.Output.Path)
	opts.OutputName = str("output", f.outputName, cfg.Output.Name)
	opts.WholeDiagram = boolean("whole-diagram", f.whole, cfg.Output.WholeDiagram)
	opts.ProjectDiagrams = boolean("project-diagrams", f.project, cfg.Output.ProjectDiagrams)
	opts.RankDir = f.rankDir
	opts.Palette = cfg.Colors.Palette(opts.OutputType)
	opts.Concurrency = f.concurrency
	if !changed("concurrency") && cfg.Feed.Concurrency > 0 {
		opts.Concurrency = cfg.Feed.Concurrency
	}

	password := f.password
	if password == "" {
		password = cfg.Feed.Password()
	}
	timeout := f.timeout
	if !changed("timeout") && cfg.Feed.Timeout > 0 {
		timeout = cfg.Feed.Timeout
	}
	fo := nuget.Options{
		URL:      str("feed", f.feedURL, cfg.Feed.URL),
		Username: str("username", f.username, cfg.Feed.Username),
		Password: password,
		TTL:      cfg.Cache.TTL,
		Refresh:  f.refresh,
	}
	if timeout > 0 {
		fo.HTTPClient = &http.Client{Timeout: timeout}
	}

	co := cache.Options{
		Disabled:  f.noCache || cfg.Cache.Disabled,
		Dir:       cfg.Cache.Dir,
		RedisAddr: cfg.Cache.RedisAddr,
		Prefix:    cache.DefaultRedisPrefix,
	}
	return settings{pipeline: opts, feed: fo, cache: co}
}

// loadSettings reads the config file and merges it with the flags.
func (f *runFlags) loadSettings(cmd *cobra.Command) (settings, error) {
	cfg, err := config.Discover(f.configPath)
	if err != nil {
		return settings{}, err
	}
	return f.resolve(cmd, cfg), nil
}

// openCache opens the configured cache backend, defaulting the file cache
// to the XDG cache directory.
func openCache(opts cache.Options) (cache.Cache, error) {
	if !opts.Disabled && opts.RedisAddr == "" && opts.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(opts)
}

// promptPassword asks for the feed password when a user name was given
// without one. It reads from the terminal without echo.
func promptPassword(s *settings, prompt io.Writer) error {
	if s.feed.Username == "" || s.feed.Password != "" {
		return nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New(errors.ErrCodeInvalidInput, "password for %s required: use --password or password_env in the config file", s.feed.Username)
	}
	fmt.Fprintf(prompt, "Password for %s: ", s.feed.Username)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read password")
	}
	s.feed.Password = string(pw)
	return nil
}
