package render

import (
	"context"
	"io"
	"strings"

	"github.com/matzehuels/nugetviz/pkg/errors"
	"github.com/matzehuels/nugetviz/pkg/graph"
	"github.com/matzehuels/nugetviz/pkg/render/dgml"
	"github.com/matzehuels/nugetviz/pkg/render/graphviz"
)

// Output format names accepted by [New].
const (
	FormatDGML     = "dgml"
	FormatGraphviz = "graphviz"
	FormatSVG      = "svg"
	FormatPNG      = "png"
)

// Formats lists the canonical format names.
var Formats = []string{FormatDGML, FormatGraphviz, FormatSVG, FormatPNG}

// Sink writes a graph in one output format.
type Sink interface {
	// Format returns the canonical format name.
	Format() string
	// Extension returns the file extension without the leading dot.
	Extension() string
	// Render writes g to w, colouring each package by classify.
	Render(ctx context.Context, g *graph.Graph, classify graph.ClassifyFunc, w io.Writer) error
}

// Palette maps severities to colours. Colour syntax depends on the format:
// "#RRGGBB" for DGML, any Graphviz colour name or hex value otherwise.
type Palette struct {
	VersionMismatch  string `toml:"version_mismatch" yaml:"version_mismatch"`
	MultipleVersions string `toml:"multiple_versions" yaml:"multiple_versions"`
	Consistent       string `toml:"consistent" yaml:"consistent"`
}

// Color returns the colour for s.
func (p Palette) Color(s graph.Severity) string {
	switch s {
	case graph.VersionMismatch:
		return p.VersionMismatch
	case graph.MultipleVersionsPresent:
		return p.MultipleVersions
	default:
		return p.Consistent
	}
}

// Or returns p with empty fields taken from def.
func (p Palette) Or(def Palette) Palette {
	if p.VersionMismatch == "" {
		p.VersionMismatch = def.VersionMismatch
	}
	if p.MultipleVersions == "" {
		p.MultipleVersions = def.MultipleVersions
	}
	if p.Consistent == "" {
		p.Consistent = def.Consistent
	}
	return p
}

// DGMLPalette is the default DGML palette.
var DGMLPalette = Palette{
	VersionMismatch:  dgml.ColorVersionMismatch,
	MultipleVersions: dgml.ColorMultipleVersions,
	Consistent:       dgml.ColorConsistent,
}

// GraphvizPalette is the default palette of the Graphviz-based formats.
var GraphvizPalette = Palette{
	VersionMismatch:  graphviz.ColorVersionMismatch,
	MultipleVersions: graphviz.ColorMultipleVersions,
	Consistent:       graphviz.ColorConsistent,
}

// Options configures a sink.
type Options struct {
	Palette Palette // Overrides for the format's default palette
	RankDir string  // Graphviz layout direction; ignored by DGML
}

// Canonical returns the canonical name for format, resolving aliases and
// case. The second result is false for unknown formats.
func Canonical(format string) (string, bool) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case FormatDGML, FormatGraphviz, FormatSVG, FormatPNG:
		return f, true
	case "dot", "gv":
		return FormatGraphviz, true
	default:
		return "", false
	}
}

// New returns the sink for format. Unknown formats yield an INVALID_FORMAT
// error.
func New(format string, opts Options) (Sink, error) {
	name, ok := Canonical(format)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output type %q (want one of %s)", format, strings.Join(Formats, ", "))
	}

	if name == FormatDGML {
		return &dgmlSink{opts: dgml.Options{Color: opts.Palette.Or(DGMLPalette).Color}}, nil
	}
	dot := graphviz.Options{Color: opts.Palette.Or(GraphvizPalette).Color, RankDir: opts.RankDir}
	return &dotSink{format: name, opts: dot}, nil
}

type dgmlSink struct {
	opts dgml.Options
}

func (s *dgmlSink) Format() string    { return FormatDGML }
func (s *dgmlSink) Extension() string { return "dgml" }

func (s *dgmlSink) Render(ctx context.Context, g *graph.Graph, classify graph.ClassifyFunc, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return dgml.Write(w, g, classify, s.opts)
}

// dotSink covers DOT source and the formats Graphviz renders from it.
type dotSink struct {
	format string
	opts   graphviz.Options
}

func (s *dotSink) Format() string { return s.format }

func (s *dotSink) Extension() string {
	if s.format == FormatGraphviz {
		return "dot"
	}
	return s.format
}

func (s *dotSink) Render(ctx context.Context, g *graph.Graph, classify graph.ClassifyFunc, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dot := graphviz.ToDOT(g, classify, s.opts)

	var (
		out []byte
		err error
	)
	switch s.format {
	case FormatSVG:
		out, err = graphviz.RenderSVG(ctx, dot)
	case FormatPNG:
		out, err = graphviz.RenderPNG(ctx, dot)
	default:
		out = []byte(dot)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render %s", s.format)
	}
	_, err = w.Write(out)
	return err
}
