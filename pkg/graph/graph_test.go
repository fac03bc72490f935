package graph

import (
	"errors"
	"testing"
)

func pkg(id, local, remote string, deps ...Dependency) *Package {
	return &Package{
		NugetID:       id,
		LocalVersion:  local,
		RemoteVersion: remote,
		InternalID:    id + "@" + local,
		Dependencies:  deps,
	}
}

func TestParseDependency(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Dependency
		wantErr bool
	}{
		{name: "Pinned", in: "A:1.0", want: Dependency{NugetID: "A", Version: "1.0"}},
		{name: "Unpinned", in: "A:", want: Dependency{NugetID: "A"}},
		{name: "TargetFramework", in: "A:1.0:net45", want: Dependency{NugetID: "A", Version: "1.0"}},
		{name: "EmptyID", in: ":1.0", want: Dependency{Version: "1.0"}},
		{name: "NoSeparator", in: "A", wantErr: true},
		{name: "Empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDependency(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDependency) {
					t.Fatalf("err = %v, want ErrMalformedDependency", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExternalLabel(t *testing.T) {
	if got := ExternalLabel(Dependency{NugetID: "X", Version: "2.0"}); got != "X(2.0)" {
		t.Errorf("pinned label = %q, want X(2.0)", got)
	}
	if got := ExternalLabel(Dependency{NugetID: "X"}); got != "X" {
		t.Errorf("unpinned label = %q, want X", got)
	}
}

func TestPackageLabel(t *testing.T) {
	if got := pkg("A", "1.0", "1.0").Label(); got != "A (1.0)" {
		t.Errorf("Label = %q, want %q", got, "A (1.0)")
	}
	agg := pkg("ProjectA", "", "")
	if !agg.IsAggregate() {
		t.Error("empty local version should be aggregate")
	}
	if got := agg.Label(); got != "ProjectA" {
		t.Errorf("aggregate Label = %q, want ProjectA", got)
	}
}

func TestGraphLookupAndExternals(t *testing.T) {
	a := pkg("A", "1.0", "1.0")
	b := pkg("B", "2.0", "2.0")
	a.Edges = []Edge{
		{Dependency: Dependency{NugetID: "B", Version: "2.0"}, Package: b},
		{Dependency: Dependency{NugetID: "X", Version: "1.0"}, External: "X(1.0)"},
	}
	b.Edges = []Edge{
		{Dependency: Dependency{NugetID: "X", Version: "1.0"}, External: "X(1.0)"},
		{Dependency: Dependency{NugetID: "Y"}, External: "Y"},
	}
	g := New([]*Package{a, b})

	if g.Len() != 2 {
		t.Errorf("Len = %d, want 2", g.Len())
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount = %d, want 4", g.EdgeCount())
	}
	if got, ok := g.Lookup("B", "2.0"); !ok || got != b {
		t.Errorf("Lookup(B, 2.0) = %v, %v", got, ok)
	}
	if _, ok := g.Lookup("B", "1.0"); ok {
		t.Error("Lookup(B, 1.0) should miss")
	}

	ext := g.Externals()
	if len(ext) != 2 || ext[0] != "X(1.0)" || ext[1] != "Y" {
		t.Errorf("Externals = %v, want [X(1.0) Y]", ext)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestGraphValidate(t *testing.T) {
	t.Run("Duplicate", func(t *testing.T) {
		g := New([]*Package{pkg("A", "1.0", "1.0"), pkg("A", "1.0", "1.0")})
		if err := g.Validate(); !errors.Is(err, ErrDuplicatePackage) {
			t.Errorf("err = %v, want ErrDuplicatePackage", err)
		}
	})

	t.Run("ForeignTarget", func(t *testing.T) {
		a := pkg("A", "1.0", "1.0")
		a.Edges = []Edge{{Package: pkg("Z", "1.0", "1.0")}}
		if err := New([]*Package{a}).Validate(); !errors.Is(err, ErrDanglingEdge) {
			t.Errorf("err = %v, want ErrDanglingEdge", err)
		}
	})

	t.Run("EmptyLabel", func(t *testing.T) {
		a := pkg("A", "1.0", "1.0")
		a.Edges = []Edge{{Dependency: Dependency{NugetID: "X"}}}
		if err := New([]*Package{a}).Validate(); !errors.Is(err, ErrDanglingEdge) {
			t.Errorf("err = %v, want ErrDanglingEdge", err)
		}
	})
}

func TestClassify(t *testing.T) {
	a1 := pkg("A", "1.0", "1.0")
	a2 := pkg("A", "2.0", "2.0")
	b := pkg("B", "1.0", "1.0")
	c := pkg("C", "1.0", "1.1")
	cOld := pkg("C", "0.9", "1.1")
	agg := pkg("ProjectA", "", "")
	all := []*Package{a1, a2, b, c, cOld, agg}

	tests := []struct {
		name string
		p    *Package
		want Severity
	}{
		{name: "Consistent", p: b, want: Consistent},
		{name: "MultipleVersions", p: a1, want: MultipleVersionsPresent},
		{name: "MultipleVersionsOther", p: a2, want: MultipleVersionsPresent},
		{name: "MismatchWins", p: c, want: VersionMismatch},
		{name: "Mismatch", p: cOld, want: VersionMismatch},
		{name: "Aggregate", p: agg, want: Consistent},
		{name: "NotInSet", p: pkg("D", "1.0", "1.0"), want: Consistent},
		{name: "Unresolved", p: pkg("E", "1.0", ""), want: VersionMismatch},
		{name: "OrdinalOnly", p: pkg("F", "1.0", "1.0.0"), want: VersionMismatch},
	}

	cl := NewClassifier(all)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.p, all); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
			if got := cl.Classify(tt.p); got != tt.want {
				t.Errorf("Classifier.Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifierCount(t *testing.T) {
	pkgs := []*Package{
		pkg("A", "1.0", "1.0"),
		pkg("A", "2.0", "2.0"),
		pkg("B", "1.0", "1.1"),
		pkg("C", "1.0", "1.0"),
	}
	counts := New(pkgs).Classifier().Count(pkgs)
	if counts[MultipleVersionsPresent] != 2 || counts[VersionMismatch] != 1 || counts[Consistent] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestSeverityString(t *testing.T) {
	for s, want := range map[Severity]string{
		Consistent:              "consistent",
		MultipleVersionsPresent: "multiple-versions",
		VersionMismatch:         "version-mismatch",
		Severity(42):            "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "2.0", -1},
		{"10.0", "9.0", 1},
		{"1.0", "1.0.1", -1},
		{"1.2.10", "1.2.9", 1},
		{"1.0-beta", "1.0-alpha", 1},
		{"1.0.0", "1.0.beta", 1},
		{"", "1.0", -1},
	}

	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
