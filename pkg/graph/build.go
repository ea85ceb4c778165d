package graph

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

// Options configures graph construction.
type Options struct {
	// Variants selects the variant values dependencies and packages are
	// evaluated against, keyed by name without the "variant." prefix.
	// Empty treats every variant-tagged dependency as present.
	Variants map[string]string
	// Phases selects which component dependency phases become edges.
	// Empty selects all of them.
	Phases []component.Phase
}

type builder struct {
	g     *Graph
	opts  Options
	index map[edgeKey]int
}

// Build composes a catalog and components into a Graph. Components are
// processed in path order, which makes first-seen-wins conflict
// resolution deterministic regardless of the order of comps.
func Build(cat *catalog.Catalog, comps []*component.Component, opts Options) *Graph {
	b := &builder{
		g:     &Graph{nodes: make(map[string]*Node), opts: opts},
		opts:  opts,
		index: make(map[edgeKey]int),
	}
	if cat == nil {
		cat = catalog.FromPackages()
	}

	b.g.components = sortedComponents(comps)
	b.g.duplicates = cat.Duplicates()

	b.addCatalogNodes(cat)
	b.attachComponents()
	b.addCatalogEdges()
	b.addComponentEdges()

	b.g.freeze()
	return b.g
}

func (b *builder) addCatalogNodes(cat *catalog.Catalog) {
	for _, name := range cat.Names() {
		var history []*catalog.Package
		for _, p := range cat.Versions(name) {
			if p.Applies(b.opts.Variants) {
				history = append(history, p)
			}
		}
		if len(history) == 0 {
			continue
		}
		b.g.nodes[name] = &Node{
			Name:    name,
			State:   Resolved,
			Package: catalog.NewestOf(history),
			History: history,
		}
	}
}

func (b *builder) attachComponents() {
	claimed := make(map[string]int) // name -> index into conflicts, or -1
	for _, c := range b.g.components {
		for _, f := range c.Produces {
			n := b.node(f.Name, ComponentOnly)
			if n.Owner == nil {
				n.Owner = c
				claimed[f.Name] = -1
				continue
			}
			if n.Owner == c {
				continue
			}
			i := claimed[f.Name]
			if i < 0 {
				i = len(b.g.conflicts)
				claimed[f.Name] = i
				b.g.conflicts = append(b.g.conflicts, ProductConflict{Name: f.Name, Owner: n.Owner.Path})
			}
			b.g.conflicts[i].Claimants = append(b.g.conflicts[i].Claimants, c.Path)
		}
	}
}

// addCatalogEdges adds the dependencies of the newest version of every
// cataloged name. The node list is snapshotted first since unresolved
// targets add nodes.
func (b *builder) addCatalogEdges() {
	var resolved []*Node
	for _, name := range slices.Sorted(maps.Keys(b.g.nodes)) {
		if n := b.g.nodes[name]; n.State == Resolved {
			resolved = append(resolved, n)
		}
	}
	for _, n := range resolved {
		for _, d := range n.Package.Dependencies {
			if !d.Applies(b.opts.Variants) {
				continue
			}
			i := b.edge(n.Name, d.Target.Name, d.Kind, OriginCatalog)
			if !d.Target.IsStem() {
				e := &b.g.edges[i]
				if e.Constraint.IsZero() || fmri.CompareVersion(d.Target.Version, e.Constraint.Version) > 0 {
					e.Constraint = d.Target
				}
			}
		}
	}
	for i := range b.g.edges {
		e := &b.g.edges[i]
		if e.Constraint.IsZero() {
			continue
		}
		target := b.g.nodes[e.To]
		if target.State != Resolved {
			continue
		}
		e.Unsatisfied = true
		for _, p := range target.History {
			if fmri.Satisfies(e.Constraint, p.FMRI) {
				e.Unsatisfied = false
				break
			}
		}
	}
}

func (b *builder) addComponentEdges() {
	for _, c := range b.g.components {
		deps := c.DependenciesIn(b.opts.Phases...)
		for _, f := range c.Produces {
			if b.g.nodes[f.Name].Owner != c {
				continue
			}
			for _, d := range deps {
				if !d.Applies(b.opts.Variants) {
					continue
				}
				b.edge(f.Name, d.Target.Name, d.Kind, PhaseOrigin(d.Phase))
			}
		}
	}
}

// node returns the node named name, creating it in state s if absent.
func (b *builder) node(name string, s State) *Node {
	n, ok := b.g.nodes[name]
	if !ok {
		n = &Node{Name: name, State: s}
		b.g.nodes[name] = n
	}
	return n
}

// edge adds or merges the edge (from, to, kind) and returns its index.
func (b *builder) edge(from, to string, kind catalog.Kind, origin Origin) int {
	b.node(to, Unresolved)
	k := edgeKey{from, to, kind}
	if i, ok := b.index[k]; ok {
		b.g.edges[i].Origins |= origin
		return i
	}
	i := len(b.g.edges)
	b.index[k] = i
	b.g.edges = append(b.g.edges, Edge{From: from, To: to, Kind: kind, Origins: origin})
	return i
}

func sortedComponents(comps []*component.Component) []*component.Component {
	out := slices.Clone(comps)
	slices.SortStableFunc(out, func(a, b *component.Component) int { return cmp.Compare(a.Path, b.Path) })
	return out
}
