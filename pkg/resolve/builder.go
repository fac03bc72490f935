// Package resolve turns manifest entries plus feed lookups into a
// [graph.Graph].
//
// A [Builder] owns the accumulating package set for one run. Manifests are
// added one at a time; each contributes packages for entries the feed knows
// and one aggregate node listing the references it could not match. Edges are
// resolved once, in [Builder.Resolve], after every manifest is in.
//
//	b := resolve.NewBuilder()
//	for _, m := range manifests {
//	    if err := b.AddManifest(m); err != nil {
//	        return err
//	    }
//	}
//	g, err := b.Resolve()
//
// The builder does no I/O. Feed lookups are performed beforehand and arrive
// as [RawEntry] values; a failed lookup is just an entry without a record.
package resolve

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	nverrors "github.com/matzehuels/nugetviz/pkg/errors"
	"github.com/matzehuels/nugetviz/pkg/feed"
	"github.com/matzehuels/nugetviz/pkg/graph"
)

// ErrSealed is returned when a Builder is used after [Builder.Resolve].
var ErrSealed = errors.New("resolve: builder is sealed")

// RawEntry is one manifest entry paired with its feed lookup outcome.
type RawEntry struct {
	NugetID string
	Version string
	Record  *feed.Record // nil if the feed had no match or the lookup failed
	Err     error        // lookup error, if any
}

// Manifest is the unit of work for [Builder.AddManifest].
type Manifest struct {
	Folder  string // Names the aggregate node
	Entries []RawEntry
}

// Stats counts what the builder saw and produced.
type Stats struct {
	Manifests     int // Manifests added
	Entries       int // Raw entries processed
	Packages      int // Real packages created
	Aggregates    int // Aggregate nodes in the graph
	Duplicates    int // Records discarded because the package already existed
	Unresolved    int // Entries without a feed record
	FailedLookups int // Unresolved entries whose lookup errored (not just missing)
	Externals     int // Distinct external edge targets after Resolve
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDGenerator replaces the InternalID source (default: random UUIDs).
func WithIDGenerator(fn func() string) Option {
	return func(b *Builder) { b.newID = fn }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// Builder accumulates packages across manifests. It is not safe for
// concurrent use.
type Builder struct {
	newID  func() string
	logger *log.Logger

	packages   []*graph.Package
	byKey      map[graph.Key]*graph.Package
	aggregates map[string]*graph.Package
	stats      Stats
	sealed     bool
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		newID:      uuid.NewString,
		byKey:      make(map[graph.Key]*graph.Package),
		aggregates: make(map[string]*graph.Package),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// pending is the ordered set of references a manifest has not yet matched.
type pending struct {
	refs    []graph.Dependency
	index   map[graph.Dependency]int
	matched map[graph.Dependency]bool
}

func newPending() *pending {
	return &pending{index: make(map[graph.Dependency]int), matched: make(map[graph.Dependency]bool)}
}

func (p *pending) add(d graph.Dependency) {
	if p.matched[d] {
		return
	}
	if _, ok := p.index[d]; ok {
		return
	}
	p.index[d] = len(p.refs)
	p.refs = append(p.refs, d)
}

func (p *pending) match(d graph.Dependency) {
	p.matched[d] = true
	i, ok := p.index[d]
	if !ok {
		return
	}
	p.refs = append(p.refs[:i], p.refs[i+1:]...)
	delete(p.index, d)
	for j := i; j < len(p.refs); j++ {
		p.index[p.refs[j]] = j
	}
}

// AddManifest processes the entries of one manifest in order and appends its
// aggregate node. A reference satisfied by any package of the manifest is
// dropped from the aggregate, whether that package's record came before or
// after the reference, so entry order never changes the aggregate.
//
// A malformed dependency pair in a feed record aborts with an
// INVALID_DEPENDENCY error; the builder is then left partially filled and
// should be discarded.
func (b *Builder) AddManifest(m Manifest) error {
	if b.sealed {
		return ErrSealed
	}
	b.stats.Manifests++

	refs := newPending()
	for _, e := range m.Entries {
		b.stats.Entries++
		ref := graph.Dependency{NugetID: e.NugetID, Version: e.Version}
		refs.add(ref)

		// An undeclared version cannot name a package; it stays an unpinned
		// reference on the aggregate.
		if e.Record == nil || e.Version == "" {
			b.stats.Unresolved++
			if e.Err != nil && !errors.Is(e.Err, feed.ErrNotFound) {
				b.stats.FailedLookups++
			}
			b.logger.Debug("unresolved entry", "manifest", m.Folder, "package", ref.NugetID, "version", ref.Version, "err", e.Err)
			continue
		}

		p, ok := b.byKey[ref.Key()]
		if ok {
			b.stats.Duplicates++
		} else {
			var err error
			if p, err = b.newPackage(e); err != nil {
				return err
			}
		}
		for _, d := range p.Dependencies {
			refs.match(d)
		}
	}

	b.addAggregate(m.Folder, refs.refs)
	return nil
}

func (b *Builder) newPackage(e RawEntry) (*graph.Package, error) {
	p := &graph.Package{
		NugetID:       e.NugetID,
		LocalVersion:  e.Version,
		RemoteVersion: e.Record.LatestVersion,
		InternalID:    b.newID(),
	}
	for _, s := range e.Record.Dependencies {
		d, err := graph.ParseDependency(s)
		if err != nil {
			return nil, nverrors.Wrap(nverrors.ErrCodeInvalidDependency, err, "feed record for %s %s", e.NugetID, e.Version)
		}
		p.Dependencies = append(p.Dependencies, d)
	}
	b.packages = append(b.packages, p)
	b.byKey[p.Key()] = p
	b.stats.Packages++
	return p, nil
}

// addAggregate creates the aggregate node for folder, or extends an existing
// one from an earlier manifest in a folder of the same name.
func (b *Builder) addAggregate(folder string, refs []graph.Dependency) {
	agg, ok := b.aggregates[folder]
	if !ok {
		agg = &graph.Package{NugetID: folder, InternalID: b.newID()}
		b.aggregates[folder] = agg
		b.packages = append(b.packages, agg)
		b.stats.Aggregates++
	}
	have := make(map[graph.Dependency]bool, len(agg.Dependencies))
	for _, d := range agg.Dependencies {
		have[d] = true
	}
	for _, d := range refs {
		if !have[d] {
			have[d] = true
			agg.Dependencies = append(agg.Dependencies, d)
		}
	}
}

// Resolve computes every edge and returns the finished graph. The builder is
// sealed afterwards.
//
// A pinned dependency targets the package with exactly that id and version.
// An unpinned one targets the highest local version of its id, ties going to
// the earliest created. Anything else becomes an external label.
func (b *Builder) Resolve() (*graph.Graph, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	b.sealed = true

	byID := make(map[string]*graph.Package)
	for _, p := range b.packages {
		if p.IsAggregate() {
			continue
		}
		if cur, ok := byID[p.NugetID]; !ok || graph.CompareVersions(p.LocalVersion, cur.LocalVersion) > 0 {
			byID[p.NugetID] = p
		}
	}

	for _, p := range b.packages {
		p.Edges = make([]graph.Edge, len(p.Dependencies))
		for i, d := range p.Dependencies {
			p.Edges[i] = b.edge(d, byID)
		}
	}

	g := graph.New(b.packages)
	if err := g.Validate(); err != nil {
		return nil, nverrors.Wrap(nverrors.ErrCodeInternal, err, "resolved graph")
	}
	b.stats.Externals = len(g.Externals())
	b.logger.Debug("resolved graph", "packages", g.Len(), "edges", g.EdgeCount(), "externals", b.stats.Externals)
	return g, nil
}

func (b *Builder) edge(d graph.Dependency, byID map[string]*graph.Package) graph.Edge {
	var target *graph.Package
	if d.IsPinned() {
		target = b.byKey[d.Key()]
	} else {
		target = byID[d.NugetID]
	}
	if target == nil {
		return graph.Edge{Dependency: d, External: graph.ExternalLabel(d)}
	}
	return graph.Edge{Dependency: d, Package: target}
}

// Stats returns the counters accumulated so far.
func (b *Builder) Stats() Stats { return b.stats }

// Resolve builds a graph from manifests in one call.
func Resolve(manifests ...Manifest) (*graph.Graph, Stats, error) {
	b := NewBuilder()
	for _, m := range manifests {
		if err := b.AddManifest(m); err != nil {
			return nil, b.Stats(), err
		}
	}
	g, err := b.Resolve()
	return g, b.Stats(), err
}
