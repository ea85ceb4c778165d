package detect

import (
	"maps"
	"slices"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/graph"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// collector gathers problems of one kind, dropping exact repeats.
type collector struct {
	kind problem.Kind
	seen map[string]bool
	out  []problem.Problem
}

func newCollector(kind problem.Kind) *collector {
	return &collector{kind: kind, seen: make(map[string]bool)}
}

func (c *collector) add(subject string, related []string, component string) {
	p := problem.Problem{Kind: c.kind, Subject: subject, Related: related, Component: component}
	key := p.String()
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.out = append(c.out, p)
}

// sorted returns the problems ordered by [problem.Compare].
func (c *collector) sorted() []problem.Problem {
	slices.SortStableFunc(c.out, problem.Compare)
	return c.out
}

// owner returns the path of the component owning name, or "".
func owner(g *graph.Graph, name string) string {
	if n, ok := g.Node(name); ok && n.Owner != nil {
		return n.Owner.Path
	}
	return ""
}

// live reports whether name is cataloged and its newest version is
// neither obsolete nor renamed.
func live(n *graph.Node) bool {
	return n.State == graph.Resolved && !n.Package.Obsolete && !n.Package.IsRenamed()
}

// retired reports whether the source of an edge is itself obsolete, in
// which case references from it are not worth reporting.
func retired(g *graph.Graph, name string) bool {
	n, ok := g.Node(name)
	return ok && n.State == graph.Resolved && n.Package.Obsolete
}

// isRenamed reports whether name is cataloged and its newest version is
// a rename.
func isRenamed(g *graph.Graph, name string) bool {
	n, ok := g.Node(name)
	return ok && n.State == graph.Resolved && n.Package.IsRenamed()
}

func missingDependency(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.MissingDependency)
	for _, e := range g.Edges() {
		if n, _ := g.Node(e.To); n.State == graph.Unresolved {
			c.add(e.To, []string{e.From}, owner(g, e.From))
		}
	}
	return c.sorted()
}

// missingRequiredByRenamed narrows missing-dependency to renamed
// requirers, whose dependency is usually the stale rename target.
func missingRequiredByRenamed(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.MissingRequiredByRenamed)
	for _, e := range g.Edges() {
		if n, _ := g.Node(e.To); n.State == graph.Unresolved && isRenamed(g, e.From) {
			c.add(e.To, []string{e.From}, owner(g, e.From))
		}
	}
	return c.sorted()
}

func renamedReference(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.RenamedReference)
	for _, e := range g.Edges() {
		n, _ := g.Node(e.To)
		if n.State != graph.Resolved || !n.Package.IsRenamed() {
			continue
		}
		renamed := n.Package.RenamedTo.Name
		if e.To == renamed || retired(g, e.From) {
			continue
		}
		c.add(e.From, []string{renamed}, owner(g, e.From))
	}
	return c.sorted()
}

func renamedNeedsRenamed(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.RenamedNeedsRenamed)
	for _, e := range g.Edges() {
		if isRenamed(g, e.From) && isRenamed(g, e.To) {
			c.add(e.From, []string{e.To}, owner(g, e.From))
		}
	}
	return c.sorted()
}

func obsoleteReference(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.ObsoleteReference)
	for _, e := range g.Edges() {
		n, _ := g.Node(e.To)
		if n.State != graph.Resolved || !n.Package.Obsolete || retired(g, e.From) {
			continue
		}
		c.add(e.From, []string{e.To}, owner(g, e.From))
	}
	return c.sorted()
}

// obsoleteRequired calls fn for every non-incorporate edge from a
// package that is not itself obsolete to an obsolete one, along with
// whether the target was published live before it was obsoleted.
func obsoleteRequired(g *graph.Graph, fn func(e graph.Edge, partly bool)) {
	for _, e := range g.Edges() {
		if e.Kind == catalog.Incorporate || retired(g, e.From) {
			continue
		}
		n, _ := g.Node(e.To)
		if n.State != graph.Resolved || !n.Package.Obsolete {
			continue
		}
		fn(e, !n.History[0].Obsolete)
	}
}

func partlyObsoleteRequired(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.PartlyObsoleteRequired)
	obsoleteRequired(g, func(e graph.Edge, partly bool) {
		if partly && !isRenamed(g, e.From) {
			c.add(e.From, []string{e.To}, owner(g, e.From))
		}
	})
	return c.sorted()
}

func obsoleteRequiredByRenamed(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.ObsoleteRequiredByRenamed)
	obsoleteRequired(g, func(e graph.Edge, _ bool) {
		if isRenamed(g, e.From) {
			c.add(e.From, []string{e.To}, owner(g, e.From))
		}
	})
	return c.sorted()
}

// cycles reports every member of every require cycle. Components come
// out ordered by smallest member, members sorted within each.
func cycles(g *graph.Graph) []problem.Problem {
	var out []problem.Problem
	for _, scc := range g.StronglyConnected(catalog.Require) {
		for _, name := range scc {
			out = append(out, problem.Problem{
				Kind:      problem.Cycle,
				Subject:   name,
				Related:   slices.Clone(scc),
				Component: owner(g, name),
			})
		}
	}
	return out
}

func duplicateDefinition(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.DuplicateDefinition)
	for _, conflict := range g.Conflicts() {
		claimants := append([]string{conflict.Owner}, conflict.Claimants...)
		slices.Sort(claimants)
		c.add(conflict.Name, claimants, conflict.Owner)
	}
	for _, d := range g.Duplicates() {
		if !d.Conflicting {
			continue
		}
		c.add(d.FMRI.String(), slices.Clone(d.Locations), owner(g, d.FMRI.Name))
	}
	return c.sorted()
}

func orphanComponent(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.OrphanComponent)
	for _, comp := range g.Components() {
		if len(comp.Produces) == 0 {
			c.add(comp.Path, nil, comp.Path)
			continue
		}
		published := false
		var products []string
		for _, f := range comp.Produces {
			products = append(products, f.Name)
			if n, ok := g.Node(f.Name); ok && n.State == graph.Resolved {
				published = true
			}
		}
		if !published {
			c.add(comp.Path, products, comp.Path)
		}
	}
	return c.sorted()
}

func missingComponent(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.MissingComponent)
	for _, n := range g.Nodes() {
		if live(n) && n.Owner == nil {
			c.add(n.Name, nil, "")
		}
	}
	return c.sorted()
}

func obsoleteInComponent(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.ObsoleteInComponent)
	for _, n := range g.Nodes() {
		if n.Owner != nil && n.State == graph.Resolved && n.Package.Obsolete {
			c.add(n.Name, nil, n.Owner.Path)
		}
	}
	return c.sorted()
}

func renamedInComponent(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.RenamedInComponent)
	for _, n := range g.Nodes() {
		if n.Owner != nil && n.State == graph.Resolved && n.Package.IsRenamed() {
			c.add(n.Name, []string{n.Package.RenamedTo.Name}, n.Owner.Path)
		}
	}
	return c.sorted()
}

// unpublishedProduct reports unpublished products of components that
// publish at least one other product. Components publishing nothing are
// orphans.
func unpublishedProduct(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.UnpublishedProduct)
	for _, comp := range g.Components() {
		var missing []string
		published := false
		for _, f := range comp.Produces {
			if n, ok := g.Node(f.Name); ok && n.State == graph.Resolved {
				published = true
			} else {
				missing = append(missing, f.Name)
			}
		}
		if !published {
			continue
		}
		for _, name := range missing {
			c.add(name, nil, comp.Path)
		}
	}
	return c.sorted()
}

// uselessComponent reports components with at least one published
// product whose products are only needed by the component itself or by
// incorporations. Build and test dependencies of other components count
// as needs, within the phases the graph was built with.
func uselessComponent(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.UselessComponent)
	for _, comp := range g.Components() {
		own := make(map[string]bool, len(comp.Produces))
		published := false
		for _, f := range comp.Produces {
			own[f.Name] = true
			if n, ok := g.Node(f.Name); ok && n.State == graph.Resolved {
				published = true
			}
		}
		if !published || neededOutside(g, own) {
			continue
		}
		c.add(comp.Path, slices.Sorted(maps.Keys(own)), comp.Path)
	}
	return c.sorted()
}

func neededOutside(g *graph.Graph, own map[string]bool) bool {
	for name := range own {
		for _, e := range g.InEdges(name) {
			if e.Kind != catalog.Incorporate && !own[e.From] {
				return true
			}
		}
	}
	return false
}

func publisherConflict(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.PublisherConflict)
	for _, n := range g.Nodes() {
		if n.State != graph.Resolved {
			continue
		}
		var publishers []string
		for _, p := range catalog.FromPackages(n.History...).NewestByPublisher(n.Name) {
			if !p.Obsolete {
				publishers = append(publishers, p.FMRI.Publisher)
			}
		}
		if len(publishers) > 1 {
			c.add(n.Name, publishers, owner(g, n.Name))
		}
	}
	return c.sorted()
}

func unsatisfiedVersion(g *graph.Graph) []problem.Problem {
	c := newCollector(problem.UnsatisfiedVersion)
	for _, e := range g.Edges() {
		if e.Unsatisfied {
			c.add(e.From, []string{e.Constraint.String()}, owner(g, e.From))
		}
	}
	return c.sorted()
}
