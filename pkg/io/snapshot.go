package io

import (
	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
	"github.com/matzehuels/pkgcheck/pkg/graph"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// =============================================================================
// Payload documents
// =============================================================================

type snapshot struct {
	Nodes      []node      `cbor:"nodes"`
	Edges      []edge      `cbor:"edges"`
	Components []comp      `cbor:"components"`
	Conflicts  []conflict  `cbor:"conflicts,omitempty"`
	Duplicates []duplicate `cbor:"duplicates,omitempty"`
	// Phases and Variants are the graph build options.
	Phases   []int             `cbor:"phases,omitempty"`
	Variants map[string]string `cbor:"variants,omitempty"`
}

type node struct {
	Name  string `cbor:"name"`
	State uint8  `cbor:"state"`
	// Package indexes History; -1 when the node is not cataloged.
	Package int    `cbor:"package"`
	History []pkg  `cbor:"history,omitempty"`
	Owner   string `cbor:"owner,omitempty"`
}

type pkg struct {
	FMRI      string              `cbor:"fmri"`
	Deps      []dependency        `cbor:"deps,omitempty"`
	Obsolete  bool                `cbor:"obsolete,omitempty"`
	RenamedTo string              `cbor:"renamed_to,omitempty"`
	Variants  map[string][]string `cbor:"variants,omitempty"`
}

type dependency struct {
	Kind      int               `cbor:"kind"`
	Target    string            `cbor:"target"`
	Predicate string            `cbor:"predicate,omitempty"`
	Variants  map[string]string `cbor:"variants,omitempty"`
	Phase     int               `cbor:"phase,omitempty"`
}

type edge struct {
	From        string `cbor:"from"`
	To          string `cbor:"to"`
	Kind        int    `cbor:"kind"`
	Origins     uint8  `cbor:"origins"`
	Constraint  string `cbor:"constraint,omitempty"`
	Unsatisfied bool   `cbor:"unsatisfied,omitempty"`
}

type comp struct {
	Path     string       `cbor:"path"`
	Name     string       `cbor:"name,omitempty"`
	Produces []string     `cbor:"produces,omitempty"`
	Deps     []dependency `cbor:"deps,omitempty"`
}

type conflict struct {
	Name      string   `cbor:"name"`
	Owner     string   `cbor:"owner"`
	Claimants []string `cbor:"claimants"`
}

type duplicate struct {
	FMRI        string   `cbor:"fmri"`
	Conflicting bool     `cbor:"conflicting,omitempty"`
	Locations   []string `cbor:"locations,omitempty"`
}

type report struct {
	Problems []reportEntry `cbor:"problems"`
}

type reportEntry struct {
	Kind      string   `cbor:"kind"`
	Subject   string   `cbor:"subject"`
	Related   []string `cbor:"related,omitempty"`
	Component string   `cbor:"component,omitempty"`
}

// =============================================================================
// Graph -> document
// =============================================================================

func fromGraph(g *graph.Graph) snapshot {
	var s snapshot
	opts := g.Options()
	for _, p := range opts.Phases {
		s.Phases = append(s.Phases, int(p))
	}
	s.Variants = opts.Variants
	for _, c := range g.Components() {
		s.Components = append(s.Components, fromComponent(c))
	}
	for _, n := range g.Nodes() {
		nd := node{Name: n.Name, State: uint8(n.State), Package: -1}
		for i, p := range n.History {
			if p == n.Package {
				nd.Package = i
			}
			nd.History = append(nd.History, fromPackage(p))
		}
		if n.Owner != nil {
			nd.Owner = n.Owner.Path
		}
		s.Nodes = append(s.Nodes, nd)
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, edge{
			From:        e.From,
			To:          e.To,
			Kind:        int(e.Kind),
			Origins:     uint8(e.Origins),
			Constraint:  fmriText(e.Constraint),
			Unsatisfied: e.Unsatisfied,
		})
	}
	for _, c := range g.Conflicts() {
		s.Conflicts = append(s.Conflicts, conflict{Name: c.Name, Owner: c.Owner, Claimants: c.Claimants})
	}
	for _, d := range g.Duplicates() {
		s.Duplicates = append(s.Duplicates, duplicate{FMRI: d.FMRI.String(), Conflicting: d.Conflicting, Locations: d.Locations})
	}
	return s
}

func fromPackage(p *catalog.Package) pkg {
	out := pkg{FMRI: p.FMRI.String(), Obsolete: p.Obsolete, Variants: p.Variants}
	if p.RenamedTo != nil {
		out.RenamedTo = p.RenamedTo.String()
	}
	for _, d := range p.Dependencies {
		out.Deps = append(out.Deps, fromDependency(d, 0))
	}
	return out
}

func fromDependency(d catalog.Dependency, phase component.Phase) dependency {
	out := dependency{Kind: int(d.Kind), Target: d.Target.String(), Variants: d.Variants, Phase: int(phase)}
	if d.Predicate != nil {
		out.Predicate = d.Predicate.String()
	}
	return out
}

func fromComponent(c *component.Component) comp {
	out := comp{Path: c.Path, Name: c.Name}
	for _, f := range c.Produces {
		out.Produces = append(out.Produces, f.String())
	}
	for _, d := range c.Dependencies {
		out.Deps = append(out.Deps, fromDependency(d.Dependency, d.Phase))
	}
	return out
}

func fmriText(f fmri.FMRI) string {
	if f.IsZero() {
		return ""
	}
	return f.String()
}

// =============================================================================
// Document -> graph
// =============================================================================

func (s snapshot) toGraph() (*graph.Graph, error) {
	owners := make(map[string]*component.Component, len(s.Components))
	comps := make([]*component.Component, 0, len(s.Components))
	for _, c := range s.Components {
		out, err := c.toComponent()
		if err != nil {
			return nil, err
		}
		owners[out.Path] = out
		comps = append(comps, out)
	}

	nodes := make([]*graph.Node, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		out := &graph.Node{Name: n.Name, State: graph.State(n.State)}
		for _, p := range n.History {
			cp, err := p.toPackage()
			if err != nil {
				return nil, err
			}
			out.History = append(out.History, cp)
		}
		if n.Package >= len(out.History) {
			return nil, errors.New(errors.ErrCodePersistence, "node %q: package index %d out of range", n.Name, n.Package)
		}
		if n.Package >= 0 {
			out.Package = out.History[n.Package]
		}
		if n.Owner != "" {
			c, ok := owners[n.Owner]
			if !ok {
				return nil, errors.New(errors.ErrCodePersistence, "node %q: unknown owner %q", n.Name, n.Owner)
			}
			out.Owner = c
		}
		nodes = append(nodes, out)
	}

	edges := make([]graph.Edge, 0, len(s.Edges))
	for _, e := range s.Edges {
		out := graph.Edge{
			From:        e.From,
			To:          e.To,
			Kind:        catalog.Kind(e.Kind),
			Origins:     graph.Origin(e.Origins),
			Unsatisfied: e.Unsatisfied,
		}
		if e.Constraint != "" {
			f, err := parseFMRI(e.Constraint)
			if err != nil {
				return nil, err
			}
			out.Constraint = f
		}
		edges = append(edges, out)
	}

	var conflicts []graph.ProductConflict
	for _, c := range s.Conflicts {
		conflicts = append(conflicts, graph.ProductConflict{Name: c.Name, Owner: c.Owner, Claimants: c.Claimants})
	}
	var dups []catalog.Duplicate
	for _, d := range s.Duplicates {
		f, err := parseFMRI(d.FMRI)
		if err != nil {
			return nil, err
		}
		dups = append(dups, catalog.Duplicate{FMRI: f, Conflicting: d.Conflicting, Locations: d.Locations})
	}

	opts := graph.Options{Variants: s.Variants}
	for _, p := range s.Phases {
		opts.Phases = append(opts.Phases, component.Phase(p))
	}
	return graph.Assemble(nodes, edges, comps, conflicts, dups, opts)
}

func (p pkg) toPackage() (*catalog.Package, error) {
	f, err := parseFMRI(p.FMRI)
	if err != nil {
		return nil, err
	}
	out := &catalog.Package{FMRI: f, Obsolete: p.Obsolete, Variants: p.Variants}
	if p.RenamedTo != "" {
		to, err := parseFMRI(p.RenamedTo)
		if err != nil {
			return nil, err
		}
		out.RenamedTo = &to
	}
	for _, d := range p.Deps {
		cd, err := d.toDependency()
		if err != nil {
			return nil, err
		}
		out.Dependencies = append(out.Dependencies, cd)
	}
	return out, nil
}

func (d dependency) toDependency() (catalog.Dependency, error) {
	target, err := parseFMRI(d.Target)
	if err != nil {
		return catalog.Dependency{}, err
	}
	out := catalog.Dependency{Kind: catalog.Kind(d.Kind), Target: target, Variants: d.Variants}
	if d.Predicate != "" {
		pred, err := parseFMRI(d.Predicate)
		if err != nil {
			return catalog.Dependency{}, err
		}
		out.Predicate = &pred
	}
	return out, nil
}

func (c comp) toComponent() (*component.Component, error) {
	out := &component.Component{Path: c.Path, Name: c.Name}
	for _, text := range c.Produces {
		f, err := parseFMRI(text)
		if err != nil {
			return nil, err
		}
		out.Produces = append(out.Produces, f)
	}
	for _, d := range c.Deps {
		cd, err := d.toDependency()
		if err != nil {
			return nil, err
		}
		out.Dependencies = append(out.Dependencies, component.Dependency{Dependency: cd, Phase: component.Phase(d.Phase)})
	}
	return out, nil
}

func parseFMRI(text string) (fmri.FMRI, error) {
	f, err := fmri.Parse(text)
	if err != nil {
		return fmri.FMRI{}, errors.Wrap(errors.ErrCodePersistence, err, "stored FMRI %q", text)
	}
	return f, nil
}

// =============================================================================
// Problems
// =============================================================================

func fromProblems(problems []problem.Problem) report {
	r := report{Problems: make([]reportEntry, 0, len(problems))}
	for _, p := range problems {
		r.Problems = append(r.Problems, reportEntry{
			Kind:      string(p.Kind),
			Subject:   p.Subject,
			Related:   p.Related,
			Component: p.Component,
		})
	}
	return r
}

func (r report) toProblems() ([]problem.Problem, error) {
	out := make([]problem.Problem, 0, len(r.Problems))
	for _, e := range r.Problems {
		kind, ok := problem.ParseKind(e.Kind)
		if !ok {
			return nil, errors.New(errors.ErrCodePersistence, "unknown problem kind %q", e.Kind)
		}
		out = append(out, problem.Problem{Kind: kind, Subject: e.Subject, Related: e.Related, Component: e.Component})
	}
	return out, nil
}
