package manifest

import (
	"encoding/xml"
	"os"
	"strings"
)

// PackagesConfig parses legacy packages.config files.
type PackagesConfig struct{}

func (p *PackagesConfig) Type() string { return "packages.config" }

func (p *PackagesConfig) Supports(name string) bool {
	return strings.EqualFold(name, "packages.config")
}

type packagesDoc struct {
	Packages []struct {
		ID      string `xml:"id,attr"`
		Version string `xml:"version,attr"`
	} `xml:"package"`
}

// Parse reads every <package> element. Both id and version are required.
func (p *PackagesConfig) Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unreadable(path, err)
	}

	var doc packagesDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, unreadable(path, err)
	}

	m := &Manifest{Path: path, Folder: FolderName(path), Type: p.Type()}
	for i, pkg := range doc.Packages {
		id, version := strings.TrimSpace(pkg.ID), strings.TrimSpace(pkg.Version)
		if id == "" {
			return nil, invalidEntry(path, i, "missing id attribute")
		}
		if version == "" {
			return nil, invalidEntry(path, i, "package %s has no version attribute", id)
		}
		e := Entry{ID: id, Version: version}
		if err := checkEntry(path, i, e); err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}
