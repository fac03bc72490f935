package manifest

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
)

var projectExts = map[string]bool{".csproj": true, ".fsproj": true, ".vbproj": true}

// ProjectFile parses PackageReference items of SDK-style project files.
type ProjectFile struct{}

func (p *ProjectFile) Type() string { return "PackageReference" }

func (p *ProjectFile) Supports(name string) bool {
	return projectExts[strings.ToLower(filepath.Ext(name))]
}

type projectDoc struct {
	ItemGroups []struct {
		References []packageReference `xml:"PackageReference"`
	} `xml:"ItemGroup"`
}

type packageReference struct {
	Include             string `xml:"Include,attr"`
	Update              string `xml:"Update,attr"`
	Version             string `xml:"Version,attr"`
	VersionElem         string `xml:"Version"`
	VersionOverride     string `xml:"VersionOverride,attr"`
	VersionOverrideElem string `xml:"VersionOverride"`
}

func (r packageReference) version() string {
	for _, v := range []string{r.VersionOverride, r.VersionOverrideElem, r.Version, r.VersionElem} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Parse reads PackageReference items with an Include attribute. Update items
// only modify existing references and are skipped. A reference without a
// version (central package management) is kept unpinned.
func (p *ProjectFile) Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unreadable(path, err)
	}

	var doc projectDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, unreadable(path, err)
	}

	m := &Manifest{Path: path, Folder: FolderName(path), Type: p.Type()}
	i := 0
	for _, g := range doc.ItemGroups {
		for _, ref := range g.References {
			id := strings.TrimSpace(ref.Include)
			switch {
			case id == "" && ref.Update != "":
				continue
			case id == "":
				return nil, invalidEntry(path, i, "PackageReference without Include")
			}
			e := Entry{ID: id, Version: ref.version()}
			if err := checkEntry(path, i, e); err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, e)
			i++
		}
	}
	return m, nil
}
