package graph

import (
	"slices"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
)

// Reaching returns every node name with a path to name, following edges
// backwards, in lexicographic order. name itself is included only when it
// lies on a cycle. With kinds given, only edges of those kinds are
// followed.
func (g *Graph) Reaching(name string, kinds ...catalog.Kind) []string {
	visited := g.reach(name, kinds)
	out := make([]string, 0, len(visited))
	for n, onPath := range visited {
		if onPath {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

// reach walks reverse edges from name. The result maps every visited name
// to whether it was reached through at least one edge.
func (g *Graph) reach(name string, kinds []catalog.Kind) map[string]bool {
	visited := map[string]bool{name: false}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.ReverseNeighbors(cur, kinds...) {
			reached, seen := visited[nb.Name]
			if seen && reached {
				continue
			}
			visited[nb.Name] = true
			if !seen {
				queue = append(queue, nb.Name)
			}
		}
	}
	return visited
}

// Dependents returns every component whose declared or resolved dependency
// chain reaches name, directly or transitively, in path order. A component
// qualifies when it owns a node that reaches name, or when it declares a
// dependency on name or on any node that reaches it; the second rule
// covers components that produce nothing. Declared dependencies are
// filtered by the phases and variants the graph was built with. An
// unknown name or one with no dependents yields an empty result.
func (g *Graph) Dependents(name string, kinds ...catalog.Kind) []*component.Component {
	visited := g.reach(name, kinds)

	var out []*component.Component
	for _, c := range g.components {
		if g.componentReaches(c, visited, kinds) {
			out = append(out, c)
		}
	}
	return out
}

func (g *Graph) componentReaches(c *component.Component, visited map[string]bool, kinds []catalog.Kind) bool {
	for _, f := range c.Produces {
		if n := g.nodes[f.Name]; n != nil && n.Owner == c && visited[f.Name] {
			return true
		}
	}
	for _, d := range c.DependenciesIn(g.opts.Phases...) {
		if len(kinds) > 0 && !slices.Contains(kinds, d.Kind) {
			continue
		}
		if !d.Applies(g.opts.Variants) {
			continue
		}
		if _, ok := visited[d.Target.Name]; ok {
			return true
		}
	}
	return false
}

// Subgraph returns the names of name and every node reaching it, and the
// edges among them, for rendering.
func (g *Graph) Subgraph(name string, kinds ...catalog.Kind) ([]string, []Edge) {
	if _, ok := g.nodes[name]; !ok {
		return nil, nil
	}
	visited := g.reach(name, kinds)
	var names []string
	for _, n := range g.names {
		if _, ok := visited[n]; ok {
			names = append(names, n)
		}
	}
	var edges []Edge
	for _, e := range g.edges {
		_, from := visited[e.From]
		_, to := visited[e.To]
		if from && to && (len(kinds) == 0 || slices.Contains(kinds, e.Kind)) {
			edges = append(edges, e)
		}
	}
	return names, edges
}
