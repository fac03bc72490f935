// Package manifest reads NuGet package references from project manifests.
//
// Two formats are supported:
//   - packages.config: <package id="..." version="..."/> elements
//   - SDK-style project files (*.csproj, *.fsproj, *.vbproj):
//     <PackageReference Include="..." Version="..."/> items
//
// [Discover] walks a directory tree for manifests, and [Parse] reads one with
// the first parser that supports its file name.
package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/matzehuels/nugetviz/pkg/errors"
)

// Entry is one declared package reference.
type Entry struct {
	ID      string
	Version string
}

// Manifest is the parsed content of one manifest file.
type Manifest struct {
	Path    string  // File path as given
	Folder  string  // Name of the containing folder; names the aggregate node
	Type    string  // Parser type that produced it
	Entries []Entry // References in document order
}

// Parser reads package references from one manifest format.
type Parser interface {
	// Type returns the manifest type identifier.
	Type() string
	// Supports reports whether this parser handles the given file name.
	Supports(filename string) bool
	// Parse reads the manifest at path.
	Parse(path string) (*Manifest, error)
}

// DefaultParsers returns every supported parser.
func DefaultParsers() []Parser {
	return []Parser{&PackagesConfig{}, &ProjectFile{}}
}

// Detect finds a parser that supports the given file path.
func Detect(path string, parsers ...Parser) (Parser, error) {
	if len(parsers) == 0 {
		parsers = DefaultParsers()
	}
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported manifest: %s", name)
}

// Parse detects the parser for path and parses it.
func Parse(path string, parsers ...Parser) (*Manifest, error) {
	p, err := Detect(path, parsers...)
	if err != nil {
		return nil, err
	}
	return p.Parse(path)
}

// FolderName returns the name of the directory containing path.
func FolderName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.Base(filepath.Dir(abs))
}

func unreadable(path string, err error) error {
	return errors.Wrap(errors.ErrCodeManifestUnreadable, err, "read manifest %s", path)
}

// checkEntry validates the id and, when declared, the version of entry i.
// A failure is MANIFEST_UNREADABLE with the INVALID_PACKAGE error as cause.
func checkEntry(path string, i int, e Entry) error {
	if err := errors.ValidatePackageName(e.ID); err != nil {
		return errors.Wrap(errors.ErrCodeManifestUnreadable, err, "%s: entry %d", path, i+1)
	}
	if e.Version == "" {
		return nil
	}
	if err := errors.ValidateVersion(e.Version); err != nil {
		return errors.Wrap(errors.ErrCodeManifestUnreadable, err, "%s: entry %d (%s)", path, i+1, e.ID)
	}
	return nil
}

func invalidEntry(path string, i int, format string, args ...any) error {
	return errors.New(errors.ErrCodeManifestUnreadable, "%s: entry %d: %s", path, i+1, fmt.Sprintf(format, args...))
}
