package graph

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

func pkg(text string, deps ...catalog.Dependency) *catalog.Package {
	return &catalog.Package{FMRI: fmri.MustParse(text), Dependencies: deps}
}

func req(target string) catalog.Dependency {
	return catalog.Dependency{Kind: catalog.Require, Target: fmri.MustParse(target)}
}

func dep(kind catalog.Kind, target string) catalog.Dependency {
	return catalog.Dependency{Kind: kind, Target: fmri.MustParse(target)}
}

func comp(path string, produces []string, deps ...component.Dependency) *component.Component {
	c := &component.Component{Path: path, Dependencies: deps}
	for _, p := range produces {
		c.Produces = append(c.Produces, fmri.New(p))
	}
	return c
}

func cdep(phase component.Phase, target string) component.Dependency {
	return component.Dependency{Dependency: req(target), Phase: phase}
}

func neighborNames(ns []Neighbor) []string {
	var out []string
	for _, n := range ns {
		out = append(out, n.Name+":"+n.Kind.String())
	}
	return out
}

func TestBuildNodes(t *testing.T) {
	cat := catalog.FromPackages(
		pkg("pkg://oi/library/zlib@1.2.11", req("system/library")),
		pkg("pkg://oi/library/zlib@1.2.13", req("system/library"), req("library/libc")),
		pkg("pkg://oi/system/library@0.5.11"),
	)
	comps := []*component.Component{
		comp("library/zlib", []string{"library/zlib"}),
		comp("library/newthing", []string{"library/newthing"}, cdep(component.Build, "developer/gcc")),
	}

	g := Build(cat, comps, Options{})

	want := map[string]State{
		"library/zlib":     Resolved,
		"system/library":   Resolved,
		"library/libc":     Unresolved,
		"library/newthing": ComponentOnly,
		"developer/gcc":    Unresolved,
	}
	if g.NodeCount() != len(want) {
		t.Errorf("NodeCount() = %d, want %d: %v", g.NodeCount(), len(want), g.Names())
	}
	for name, state := range want {
		n, ok := g.Node(name)
		if !ok {
			t.Errorf("missing node %s", name)
			continue
		}
		if n.State != state {
			t.Errorf("%s state = %v, want %v", name, n.State, state)
		}
	}

	zlib, _ := g.Node("library/zlib")
	if got := zlib.Package.FMRI.Version.String(); got != "1.2.13" {
		t.Errorf("zlib newest = %s, want 1.2.13", got)
	}
	if len(zlib.History) != 2 {
		t.Errorf("len(zlib.History) = %d, want 2", len(zlib.History))
	}
	if zlib.Owner == nil || zlib.Owner.Path != "library/zlib" {
		t.Errorf("zlib owner = %v", zlib.Owner)
	}
	if !slices.IsSorted(g.Names()) {
		t.Errorf("Names() not sorted: %v", g.Names())
	}
}

func TestBuildEdgesMerge(t *testing.T) {
	cat := catalog.FromPackages(
		pkg("a@1", req("b"), dep(catalog.Optional, "b"), req("c@2")),
		pkg("b@1"),
		pkg("c@1"),
	)
	comps := []*component.Component{
		comp("comp/a", []string{"a"},
			cdep(component.Build, "b"),
			cdep(component.Test, "b"),
			cdep(component.Runtime, "d"),
		),
	}

	g := Build(cat, comps, Options{})

	if got := neighborNames(g.Neighbors("a")); !slices.Equal(got, []string{"b:require", "b:optional", "c:require", "d:require"}) {
		t.Errorf("Neighbors(a) = %v", got)
	}
	if got := neighborNames(g.Neighbors("a", catalog.Optional)); !slices.Equal(got, []string{"b:optional"}) {
		t.Errorf("Neighbors(a, optional) = %v", got)
	}
	if got := neighborNames(g.ReverseNeighbors("b")); !slices.Equal(got, []string{"a:require", "a:optional"}) {
		t.Errorf("ReverseNeighbors(b) = %v", got)
	}

	var ab Edge
	for _, e := range g.OutEdges("a") {
		if e.To == "b" && e.Kind == catalog.Require {
			ab = e
		}
	}
	if !ab.Origins.Has(OriginCatalog | OriginBuild | OriginTest) {
		t.Errorf("a->b origins = %v, want catalog,build,test", ab.Origins)
	}
	if ab.Origins.Has(OriginRuntime) {
		t.Errorf("a->b origins = %v, should not include runtime", ab.Origins)
	}
	if got := ab.Origins.String(); got != "catalog,build,test" {
		t.Errorf("Origins.String() = %q", got)
	}

	for _, e := range g.OutEdges("a") {
		if e.To == "c" && !e.Unsatisfied {
			t.Errorf("a->c requires c@2 but only c@1 exists; Unsatisfied should be set")
		}
		if e.To == "b" && e.Unsatisfied {
			t.Errorf("a->b has no version constraint; Unsatisfied should be unset")
		}
	}
}

func TestBuildPhasesAndVariants(t *testing.T) {
	sparcOnly := catalog.Dependency{Kind: catalog.Require, Target: fmri.New("sparc/lib"), Variants: map[string]string{"arch": "sparc"}}
	cat := catalog.FromPackages(
		pkg("a@1", sparcOnly),
		&catalog.Package{FMRI: fmri.MustParse("x86/only@1"), Variants: map[string][]string{"arch": {"i386"}}},
	)
	comps := []*component.Component{
		comp("comp/a", []string{"a"}, cdep(component.Test, "check")),
	}

	all := Build(cat, comps, Options{})
	if len(all.Neighbors("a")) != 2 {
		t.Errorf("unfiltered Neighbors(a) = %v", all.Neighbors("a"))
	}

	filtered := Build(cat, comps, Options{
		Variants: map[string]string{"arch": "i386"},
		Phases:   []component.Phase{component.Runtime, component.Build},
	})
	if n := filtered.Neighbors("a"); len(n) != 0 {
		t.Errorf("filtered Neighbors(a) = %v, want none", n)
	}
	if _, ok := filtered.Node("x86/only"); !ok {
		t.Error("i386 package should remain with arch=i386")
	}

	sparc := Build(cat, comps, Options{Variants: map[string]string{"arch": "sparc"}})
	if _, ok := sparc.Node("x86/only"); ok {
		t.Error("i386 package should be excluded with arch=sparc")
	}
}

func TestBuildConflicts(t *testing.T) {
	comps := []*component.Component{
		comp("z/second", []string{"shared", "z"}, cdep(component.Build, "from-second")),
		comp("a/first", []string{"shared"}, cdep(component.Build, "from-first")),
		comp("m/third", []string{"shared"}),
	}
	g := Build(nil, comps, Options{})

	n, _ := g.Node("shared")
	if n.Owner.Path != "a/first" {
		t.Errorf("shared owner = %s, want a/first", n.Owner.Path)
	}
	conflicts := g.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("len(Conflicts()) = %d, want 1", len(conflicts))
	}
	if c := conflicts[0]; c.Name != "shared" || c.Owner != "a/first" || !slices.Equal(c.Claimants, []string{"m/third", "z/second"}) {
		t.Errorf("conflict = %+v", c)
	}
	if got := neighborNames(g.Neighbors("shared")); !slices.Equal(got, []string{"from-first:require"}) {
		t.Errorf("Neighbors(shared) = %v, want only the owner's dependencies", got)
	}
	if got := neighborNames(g.Neighbors("z")); !slices.Equal(got, []string{"from-second:require"}) {
		t.Errorf("Neighbors(z) = %v", got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	cat := catalog.FromPackages(pkg("a@1", req("b"), req("c")), pkg("b@1", req("a")))
	comps := []*component.Component{
		comp("x", []string{"c"}, cdep(component.Build, "a")),
		comp("y", []string{"c", "d"}, cdep(component.Build, "b")),
	}
	first := Build(cat, comps, Options{})
	for range 10 {
		slices.Reverse(comps)
		g := Build(cat, comps, Options{})
		if !slices.Equal(g.Names(), first.Names()) {
			t.Fatalf("Names() differ: %v vs %v", g.Names(), first.Names())
		}
		if !slices.EqualFunc(g.Edges(), first.Edges(), func(a, b Edge) bool { return CompareEdge(a, b) == 0 && a.Origins == b.Origins }) {
			t.Fatalf("Edges() differ")
		}
		if n, _ := g.Node("c"); n.Owner.Path != "x" {
			t.Fatalf("owner of c = %s, want x", n.Owner.Path)
		}
	}
}

func TestStronglyConnected(t *testing.T) {
	tests := []struct {
		name string
		pkgs []*catalog.Package
		want [][]string
	}{
		{
			name: "TwoCycle",
			pkgs: []*catalog.Package{pkg("a@1", req("b")), pkg("b@1", req("a"))},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "Chain",
			pkgs: []*catalog.Package{pkg("a@1", req("b")), pkg("b@1", req("c")), pkg("c@1")},
			want: nil,
		},
		{
			name: "SelfLoop",
			pkgs: []*catalog.Package{pkg("a@1", req("a"))},
			want: nil,
		},
		{
			name: "OptionalBackEdgeIgnored",
			pkgs: []*catalog.Package{pkg("a@1", req("b")), pkg("b@1", dep(catalog.Optional, "a"))},
			want: nil,
		},
		{
			name: "NestedCycles",
			pkgs: []*catalog.Package{
				pkg("a@1", req("b")), pkg("b@1", req("c")), pkg("c@1", req("a"), req("d")),
				pkg("d@1", req("e")), pkg("e@1", req("d"), req("b")),
			},
			want: [][]string{{"a", "b", "c", "d", "e"}},
		},
		{
			name: "TwoComponents",
			pkgs: []*catalog.Package{
				pkg("z@1", req("y")), pkg("y@1", req("x")), pkg("x@1", req("z")),
				pkg("b@1", req("a")), pkg("a@1", req("b")),
				pkg("c@1", req("a")),
			},
			want: [][]string{{"a", "b"}, {"x", "y", "z"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(catalog.FromPackages(tt.pkgs...), nil, Options{})
			got := g.StronglyConnected(catalog.Require)
			if !slices.EqualFunc(got, tt.want, slices.Equal[[]string]) {
				t.Errorf("StronglyConnected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStronglyConnectedLongChain(t *testing.T) {
	const n = 50000
	pkgs := make([]*catalog.Package, n)
	for i := range n {
		pkgs[i] = pkg(fmt.Sprintf("n%06d@1", i), req(fmt.Sprintf("n%06d", (i+1)%n)))
	}
	g := Build(catalog.FromPackages(pkgs...), nil, Options{})

	got := g.StronglyConnected(catalog.Require)
	if len(got) != 1 || len(got[0]) != n {
		t.Fatalf("StronglyConnected() = %d components, want one of %d members", len(got), n)
	}
	if got[0][0] != "n000000" || got[0][n-1] != fmt.Sprintf("n%06d", n-1) {
		t.Errorf("members not sorted: first %s, last %s", got[0][0], got[0][n-1])
	}
}

func TestDependents(t *testing.T) {
	cat := catalog.FromPackages(
		pkg("lib/base@1"),
		pkg("lib/mid@1", req("lib/base")),
		pkg("app/top@1", req("lib/mid")),
		pkg("app/other@1"),
	)
	comps := []*component.Component{
		comp("c/base", []string{"lib/base"}),
		comp("c/mid", []string{"lib/mid"}),
		comp("c/top", []string{"app/top"}),
		comp("c/other", []string{"app/other"}),
		comp("c/meta", nil, cdep(component.Build, "lib/mid")),
		comp("c/tests", nil, cdep(component.Test, "app/other")),
	}
	g := Build(cat, comps, Options{})

	paths := func(cs []*component.Component) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Path)
		}
		return out
	}

	if got := paths(g.Dependents("lib/base")); !slices.Equal(got, []string{"c/meta", "c/mid", "c/top"}) {
		t.Errorf("Dependents(lib/base) = %v", got)
	}
	if got := paths(g.Dependents("app/top")); len(got) != 0 {
		t.Errorf("Dependents(app/top) = %v, want empty", got)
	}
	if got := paths(g.Dependents("does/not/exist")); len(got) != 0 {
		t.Errorf("Dependents(unknown) = %v, want empty", got)
	}
	first := paths(g.Dependents("lib/base"))
	if again := paths(g.Dependents("lib/base")); !slices.Equal(first, again) {
		t.Errorf("Dependents() not idempotent: %v vs %v", first, again)
	}

	if got := g.Reaching("lib/base"); !slices.Equal(got, []string{"app/top", "lib/mid"}) {
		t.Errorf("Reaching(lib/base) = %v", got)
	}
}

func TestDependentsThroughCycle(t *testing.T) {
	cat := catalog.FromPackages(pkg("a@1", req("b")), pkg("b@1", req("a")))
	comps := []*component.Component{comp("ca", []string{"a"}), comp("cb", []string{"b"})}
	g := Build(cat, comps, Options{})

	got := g.Dependents("a")
	if len(got) != 2 {
		t.Errorf("Dependents(a) on a cycle = %d components, want 2", len(got))
	}
	if r := g.Reaching("a"); !slices.Equal(r, []string{"a", "b"}) {
		t.Errorf("Reaching(a) = %v, want [a b]", r)
	}
}

func TestDependentsHonorsPhases(t *testing.T) {
	cat := catalog.FromPackages(pkg("lib/base@1"))
	comps := []*component.Component{
		comp("c/base", []string{"lib/base"}),
		comp("c/builder", nil, cdep(component.Build, "lib/base")),
		comp("c/tester", nil, cdep(component.Test, "lib/base")),
	}

	tests := []struct {
		name   string
		phases []component.Phase
		want   []string
	}{
		{"all phases", nil, []string{"c/builder", "c/tester"}},
		{"build only", []component.Phase{component.Build}, []string{"c/builder"}},
		{"runtime only", []component.Phase{component.Runtime}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(cat, comps, Options{Phases: tt.phases})
			var got []string
			for _, c := range g.Dependents("lib/base") {
				got = append(got, c.Path)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Dependents(lib/base) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	nodes := []*Node{{Name: "a", State: Resolved}, {Name: "b", State: Unresolved}}
	edges := []Edge{
		{From: "a", To: "b", Kind: catalog.Require, Origins: OriginCatalog},
		{From: "a", To: "b", Kind: catalog.Require, Origins: OriginBuild},
	}
	g, err := Assemble(nodes, edges, nil, nil, nil, Options{})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if g.EdgeCount() != 1 || g.Edges()[0].Origins != OriginCatalog|OriginBuild {
		t.Errorf("Assemble() edges = %v", g.Edges())
	}

	if _, err := Assemble(nodes, []Edge{{From: "a", To: "missing"}}, nil, nil, nil, Options{}); err == nil {
		t.Error("Assemble() should reject dangling edges")
	}
	if _, err := Assemble([]*Node{{Name: "a"}, {Name: "a"}}, nil, nil, nil, nil, Options{}); err == nil {
		t.Error("Assemble() should reject duplicate nodes")
	}
}

func TestToDOT(t *testing.T) {
	cat := catalog.FromPackages(pkg("a@1", req("b"), dep(catalog.Optional, "c")))
	g := Build(cat, nil, Options{})
	names, edges := g.Subgraph("b")
	if !slices.Equal(names, []string{"a", "b"}) {
		t.Errorf("Subgraph(b) names = %v", names)
	}

	dot := g.ToDOT(g.Names(), g.Edges(), DOTOptions{Highlight: "b", Detailed: true})
	for _, want := range []string{
		"digraph G {",
		`"a" -> "b";`,
		`"a" -> "c" [style=dashed, label="optional"];`,
		"penwidth=2.5",
		`label="c\nunresolved"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if len(edges) != 1 {
		t.Errorf("Subgraph(b) edges = %v", edges)
	}
}
