package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDependency is returned by [ParseDependency] for a pair that has
// no ':' separator.
var ErrMalformedDependency = errors.New("malformed dependency")

// Dependency is a declared reference to another package. An empty Version
// means the reference is unpinned.
type Dependency struct {
	NugetID string
	Version string
}

// ParseDependency parses an "id:version" pair as reported by a feed.
// Trailing segments such as a target framework ("id:1.0:net45") are ignored.
func ParseDependency(s string) (Dependency, error) {
	id, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Dependency{}, fmt.Errorf("%w: %q", ErrMalformedDependency, s)
	}
	version, _, _ := strings.Cut(rest, ":")
	return Dependency{NugetID: id, Version: version}, nil
}

// Key returns the package identity d refers to.
func (d Dependency) Key() Key { return Key{ID: d.NugetID, Version: d.Version} }

// IsPinned reports whether d names an exact version.
func (d Dependency) IsPinned() bool { return d.Version != "" }

// String returns the "id:version" form.
func (d Dependency) String() string { return d.NugetID + ":" + d.Version }

// ExternalLabel returns the node label for a dependency with no matching
// package: "id(version)", or "id" when unpinned.
func ExternalLabel(d Dependency) string {
	if d.Version == "" {
		return d.NugetID
	}
	return d.NugetID + "(" + d.Version + ")"
}
