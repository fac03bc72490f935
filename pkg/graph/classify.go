package graph

// Severity is the conflict class of a package, used for colouring.
type Severity int

const (
	Consistent Severity = iota
	MultipleVersionsPresent
	VersionMismatch
)

// Severities lists all severities from most to least severe.
var Severities = []Severity{VersionMismatch, MultipleVersionsPresent, Consistent}

func (s Severity) String() string {
	switch s {
	case Consistent:
		return "consistent"
	case MultipleVersionsPresent:
		return "multiple-versions"
	case VersionMismatch:
		return "version-mismatch"
	default:
		return "unknown"
	}
}

// ClassifyFunc maps a package to its severity. Sinks receive one per render.
type ClassifyFunc func(*Package) Severity

// Classify returns the severity of p within all. A local version that differs
// from the remote version wins over multiple versions of the same id.
func Classify(p *Package, all []*Package) Severity {
	if p.LocalVersion != p.RemoteVersion {
		return VersionMismatch
	}
	for _, o := range all {
		if o.NugetID == p.NugetID && o.LocalVersion != p.LocalVersion {
			return MultipleVersionsPresent
		}
	}
	return Consistent
}

// Classifier answers [Classify] queries against a fixed package set using a
// per-id version index.
type Classifier struct {
	versions map[string]map[string]struct{}
}

// NewClassifier indexes pkgs by id.
func NewClassifier(pkgs []*Package) *Classifier {
	versions := make(map[string]map[string]struct{})
	for _, p := range pkgs {
		vs, ok := versions[p.NugetID]
		if !ok {
			vs = make(map[string]struct{})
			versions[p.NugetID] = vs
		}
		vs[p.LocalVersion] = struct{}{}
	}
	return &Classifier{versions: versions}
}

// Classify has the same semantics as the package-level [Classify].
func (c *Classifier) Classify(p *Package) Severity {
	if p.LocalVersion != p.RemoteVersion {
		return VersionMismatch
	}
	vs := c.versions[p.NugetID]
	if _, self := vs[p.LocalVersion]; len(vs) > 1 || (len(vs) == 1 && !self) {
		return MultipleVersionsPresent
	}
	return Consistent
}

// Count tallies the severities of pkgs.
func (c *Classifier) Count(pkgs []*Package) map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, p := range pkgs {
		counts[c.Classify(p)]++
	}
	return counts
}
