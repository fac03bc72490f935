// Package pkg provides the libraries behind nugetviz, a NuGet package graph
// visualizer for .NET solutions.
//
// # Overview
//
// nugetviz reads packages.config and SDK-style project files, looks every
// referenced package up on a NuGet v3 feed, links packages to what they
// depend on and writes a diagram in which outdated packages and packages
// present in several versions stand out.
//
// # Architecture
//
// The data flow through nugetviz:
//
//	packages.config / *.csproj
//	         ↓
//	    [manifest] package (discover and parse)
//	         ↓
//	    [feed] package (latest version + dependencies per id)
//	         ↓
//	    [resolve] package (packages, aggregates, edges)
//	         ↓
//	    [graph] package (classification)
//	         ↓
//	    [render] package (DGML, DOT, SVG, PNG)
//
// [pipeline] runs these stages for the CLI and is the intended entry point
// for library use:
//
//	runner := pipeline.NewRunner(nuget.NewClient(nuget.Options{}), nil)
//	opts := pipeline.DefaultOptions()
//	opts.Folder = "./src"
//	res, err := runner.Execute(ctx, opts)
//
// # Main Packages
//
// [graph] - Package nodes, edges and the severity classifier. Identity is the
// pair (NugetID, LocalVersion); aggregate nodes carry no version.
//
// [manifest] - Discovery and parsing of packages.config and PackageReference
// project files.
//
// [feed] - The lookup interface and a bounded-concurrency batch fetcher.
// [feed/nuget] implements it against the v3 registration API.
//
// [resolve] - Builds the graph from manifest entries and lookup results.
//
// [render] - Output sinks. [render/dgml] writes Visual Studio DGML;
// [render/graphviz] writes DOT and lays it out to SVG or PNG.
//
// # Infrastructure
//
// [cache] - File and Redis backends for feed responses.
//
// [integrations] - Shared HTTP client: caching, retry, auth.
//
// [config] - TOML and YAML configuration files.
//
// [errors] - Coded errors shown to CLI users.
//
// [observability] - Hooks for pipeline stages, cache and HTTP events.
package pkg
