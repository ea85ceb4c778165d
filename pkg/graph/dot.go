package graph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Highlight is drawn with a bold outline, typically the queried root.
	Highlight string
	// Detailed adds the node state, newest version and owning component to
	// labels.
	Detailed bool
}

// ToDOT writes the given nodes and edges in Graphviz DOT format. Nodes are
// styled by state: unresolved nodes are red, component-only nodes dashed.
// Non-require edges are dashed and labelled with their kind.
func (g *Graph) ToDOT(names []string, edges []Edge, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, name := range names {
		n, ok := g.nodes[name]
		if !ok {
			continue
		}
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed))}
		switch n.State {
		case Unresolved:
			attrs = append(attrs, "fillcolor=\"#f8d7da\"", "color=\"#c0392b\"")
		case ComponentOnly:
			attrs = append(attrs, "style=\"rounded,filled,dashed\"")
		}
		if name == opts.Highlight {
			attrs = append(attrs, "penwidth=2.5")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if e.Kind == catalog.Require {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=%q];\n", e.From, e.To, e.Kind.String())
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name, n.State.String()}
	if n.Package != nil && !n.Package.FMRI.IsStem() {
		parts = append(parts, n.Package.FMRI.Version.String())
	}
	if n.Owner != nil {
		parts = append(parts, "component: "+n.Owner.Path)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
