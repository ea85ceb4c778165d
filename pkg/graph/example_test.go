package graph_test

import (
	"fmt"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
	"github.com/matzehuels/pkgcheck/pkg/graph"
)

func ExampleBuild() {
	cat := catalog.FromPackages(
		&catalog.Package{
			FMRI: fmri.MustParse("pkg://openindiana.org/library/zlib@1.2.13"),
			Dependencies: []catalog.Dependency{
				{Kind: catalog.Require, Target: fmri.New("system/library")},
			},
		},
	)
	comps := []*component.Component{{
		Path:     "library/zlib",
		Produces: []fmri.FMRI{fmri.New("library/zlib")},
	}}

	g := graph.Build(cat, comps, graph.Options{})
	for _, n := range g.Nodes() {
		fmt.Println(n.Name, n.State)
	}
	fmt.Println(g.Neighbors("library/zlib"))
	// Output:
	// library/zlib resolved
	// system/library unresolved
	// [{system/library require}]
}

func ExampleGraph_StronglyConnected() {
	require := func(name, target string) *catalog.Package {
		return &catalog.Package{
			FMRI:         fmri.MustParse(name + "@1"),
			Dependencies: []catalog.Dependency{{Kind: catalog.Require, Target: fmri.New(target)}},
		}
	}
	g := graph.Build(catalog.FromPackages(require("a", "b"), require("b", "c"), require("c", "a")), nil, graph.Options{})
	fmt.Println(g.StronglyConnected(catalog.Require))
	// Output:
	// [[a b c]]
}
