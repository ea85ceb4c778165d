package graph

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

// State is the resolution state of a node.
type State int

const (
	Unresolved State = iota
	Resolved
	ComponentOnly
)

func (s State) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case ComponentOnly:
		return "component-only"
	default:
		return "unresolved"
	}
}

// Origin records where an edge was declared.
type Origin uint8

const (
	OriginCatalog Origin = 1 << iota
	OriginRuntime
	OriginBuild
	OriginTest
	OriginSystemBuild
	OriginSystemTest
)

var originNames = []struct {
	o    Origin
	name string
}{
	{OriginCatalog, "catalog"},
	{OriginRuntime, "runtime"},
	{OriginBuild, "build"},
	{OriginTest, "test"},
	{OriginSystemBuild, "system-build"},
	{OriginSystemTest, "system-test"},
}

// Has reports whether every origin in other is set in o.
func (o Origin) Has(other Origin) bool { return o&other == other }

func (o Origin) String() string {
	var parts []string
	for _, n := range originNames {
		if o&n.o != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// PhaseOrigin maps a component dependency phase to its edge origin.
func PhaseOrigin(p component.Phase) Origin {
	switch p {
	case component.Build:
		return OriginBuild
	case component.Test:
		return OriginTest
	case component.SystemBuild:
		return OriginSystemBuild
	case component.SystemTest:
		return OriginSystemTest
	default:
		return OriginRuntime
	}
}

// Node is one package name in the graph.
type Node struct {
	Name  string
	State State
	// Package is the newest cataloged version, set only when Resolved.
	Package *catalog.Package
	// History holds every cataloged version ordered by [fmri.Compare].
	History []*catalog.Package
	// Owner is the first component producing the name, or nil.
	Owner *component.Component
}

// Edge is a dependency between two package names.
type Edge struct {
	From string
	To   string
	Kind catalog.Kind
	// Origins is the union of every declaration that produced the edge.
	Origins Origin
	// Constraint is the highest version the catalog declared for the
	// target, or the zero FMRI when every declaration was a stem.
	Constraint fmri.FMRI
	// Unsatisfied is set when no cataloged version of the target
	// satisfies Constraint.
	Unsatisfied bool
}

// Neighbor is an adjacent node reached through an edge of Kind.
type Neighbor struct {
	Name string
	Kind catalog.Kind
}

// ProductConflict records a package name produced by several components.
type ProductConflict struct {
	Name string
	// Owner is the path of the component that kept the name.
	Owner string
	// Claimants are the paths of the other components, in path order.
	Claimants []string
}

// Graph is the immutable dependency graph.
type Graph struct {
	nodes      map[string]*Node
	names      []string
	edges      []Edge
	out        map[string][]int // node -> indices into edges
	in         map[string][]int
	components []*component.Component
	conflicts  []ProductConflict
	duplicates []catalog.Duplicate
	opts       Options
}

// Node returns the node named name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Names returns every node name in lexicographic order. The slice must not
// be modified.
func (g *Graph) Names() []string { return g.names }

// Nodes returns every node in name order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.names))
	for i, name := range g.names {
		out[i] = g.nodes[name]
	}
	return out
}

// Edges returns a copy of every edge ordered by from, to and kind.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Components returns every ingested component in path order, including
// those that produce nothing.
func (g *Graph) Components() []*component.Component { return g.components }

// Conflicts returns the names claimed by more than one component, in name
// order.
func (g *Graph) Conflicts() []ProductConflict { return g.conflicts }

// Duplicates returns the catalog FMRIs defined more than once.
func (g *Graph) Duplicates() []catalog.Duplicate { return g.duplicates }

// Options returns the options the graph was built with.
func (g *Graph) Options() Options { return g.opts }

// OutEdges returns the edges leaving name in (to, kind) order.
func (g *Graph) OutEdges(name string) []Edge { return g.collect(g.out[name]) }

// InEdges returns the edges entering name in (from, kind) order.
func (g *Graph) InEdges(name string) []Edge { return g.collect(g.in[name]) }

func (g *Graph) collect(idx []int) []Edge {
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = g.edges[j]
	}
	return out
}

// Neighbors returns the targets of edges leaving name. With kinds given,
// only edges of those kinds are considered.
func (g *Graph) Neighbors(name string, kinds ...catalog.Kind) []Neighbor {
	return g.neighbors(g.out[name], kinds, func(e Edge) string { return e.To })
}

// ReverseNeighbors returns the sources of edges entering name. With kinds
// given, only edges of those kinds are considered.
func (g *Graph) ReverseNeighbors(name string, kinds ...catalog.Kind) []Neighbor {
	return g.neighbors(g.in[name], kinds, func(e Edge) string { return e.From })
}

func (g *Graph) neighbors(idx []int, kinds []catalog.Kind, end func(Edge) string) []Neighbor {
	var out []Neighbor
	for _, i := range idx {
		e := g.edges[i]
		if len(kinds) > 0 && !slices.Contains(kinds, e.Kind) {
			continue
		}
		out = append(out, Neighbor{Name: end(e), Kind: e.Kind})
	}
	return out
}

// CompareEdge orders edges by from, to and kind.
func CompareEdge(a, b Edge) int {
	return cmp.Or(
		cmp.Compare(a.From, b.From),
		cmp.Compare(a.To, b.To),
		cmp.Compare(a.Kind, b.Kind),
	)
}

// Assemble builds a Graph from its parts, as read back from a snapshot.
// Edges are merged by (from, to, kind) and every endpoint must name a
// node. Node owners must point into comps. opts are the options the parts
// were originally built with.
func Assemble(nodes []*Node, edges []Edge, comps []*component.Component, conflicts []ProductConflict, dups []catalog.Duplicate, opts Options) (*Graph, error) {
	g := &Graph{nodes: make(map[string]*Node, len(nodes)), opts: opts}
	for _, n := range nodes {
		if n.Name == "" {
			return nil, errors.New(errors.ErrCodePersistence, "node with empty name")
		}
		if _, dup := g.nodes[n.Name]; dup {
			return nil, errors.New(errors.ErrCodePersistence, "duplicate node %q", n.Name)
		}
		g.nodes[n.Name] = n
	}

	merged := make(map[edgeKey]int, len(edges))
	for _, e := range edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, errors.New(errors.ErrCodePersistence, "edge from unknown node %q", e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, errors.New(errors.ErrCodePersistence, "edge to unknown node %q", e.To)
		}
		k := edgeKey{e.From, e.To, e.Kind}
		if i, ok := merged[k]; ok {
			g.edges[i].Origins |= e.Origins
			continue
		}
		merged[k] = len(g.edges)
		g.edges = append(g.edges, e)
	}

	g.components = sortedComponents(comps)
	g.conflicts = slices.Clone(conflicts)
	g.duplicates = slices.Clone(dups)
	g.freeze()
	return g, nil
}

type edgeKey struct {
	from, to string
	kind     catalog.Kind
}

// freeze sorts nodes, edges and conflicts and rebuilds the adjacency
// index.
func (g *Graph) freeze() {
	g.names = slices.Sorted(maps.Keys(g.nodes))
	slices.SortFunc(g.edges, CompareEdge)
	slices.SortStableFunc(g.conflicts, func(a, b ProductConflict) int { return cmp.Compare(a.Name, b.Name) })
	g.out = make(map[string][]int, len(g.nodes))
	g.in = make(map[string][]int, len(g.nodes))
	for i, e := range g.edges {
		g.out[e.From] = append(g.out[e.From], i)
		g.in[e.To] = append(g.in[e.To], i)
	}
}
