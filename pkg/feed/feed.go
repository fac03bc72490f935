// Package feed defines the remote package feed consulted for latest versions
// and dependency metadata.
//
// A [Feed] answers one lookup per package id. [Fetch] runs many lookups in
// parallel and collects every outcome, successful or not, so that a failing
// lookup never hides the others. The NuGet v3 implementation lives in the
// nuget subpackage; [Map] is an in-memory feed for tests and offline runs.
package feed

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by [Feed.Lookup] when the feed has no listed
// non-prerelease version of the package.
var ErrNotFound = errors.New("package not found on feed")

// Record is the feed's view of a package: its latest non-prerelease version
// and that version's dependencies as "id:version" pairs.
type Record struct {
	ID            string   `json:"id"`
	LatestVersion string   `json:"latest_version"`
	Dependencies  []string `json:"dependencies,omitempty"`
}

// Feed looks up package records by id. Implementations must be safe for
// concurrent use.
type Feed interface {
	Lookup(ctx context.Context, id string) (*Record, error)
}

// Map is a [Feed] backed by a map keyed by case-insensitive package id.
type Map map[string]*Record

// NewMap indexes records by their ID.
func NewMap(records ...*Record) Map {
	m := make(Map, len(records))
	for _, r := range records {
		m[strings.ToLower(r.ID)] = r
	}
	return m
}

// Lookup returns the record for id or [ErrNotFound].
func (m Map) Lookup(_ context.Context, id string) (*Record, error) {
	if r, ok := m[strings.ToLower(id)]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

var _ Feed = Map(nil)
