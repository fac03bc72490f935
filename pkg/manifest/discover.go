package manifest

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/nugetviz/pkg/errors"
)

var skipDirs = map[string]bool{"bin": true, "obj": true, "node_modules": true, "packages": true}

// Discover returns the manifests below root that any of parsers supports,
// sorted by path. Root and its immediate subdirectories (one folder per
// project) are always searched; recursive also descends further.
//
// Hidden directories, build output (bin, obj), restored package folders and
// directories whose name ends in ".nuget" are skipped.
func Discover(root string, recursive bool, parsers ...Parser) ([]string, error) {
	if len(parsers) == 0 {
		parsers = DefaultParsers()
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if skipDir(d.Name()) || (!recursive && depth(root, path) > 1) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, err := Detect(path, parsers...); err == nil {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "search %s", root)
	}

	sort.Strings(found)
	return found, nil
}

// depth returns how many directories path is below root.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func skipDir(name string) bool {
	name = strings.ToLower(name)
	return skipDirs[name] || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".nuget")
}
