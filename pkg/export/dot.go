package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mazegen/pkg/grid"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Potential also draws potential edges that are not part of the tree,
	// dotted and grey.
	Potential bool

	// Spacing is the distance between neighboring cells in inches.
	// Zero means 0.5.
	Spacing float64
}

// ToDOT converts the graph to an undirected Graphviz graph. Every node carries
// a pinned position so that the grid shape survives layout; render it with
// [RenderSVG], which uses the neato engine.
func ToDOT(g *grid.Graph, opts DOTOptions) string {
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = 0.5
	}
	cells := g.Cells()
	index := make(map[grid.Key]int, len(cells))
	for i, c := range cells {
		index[c.Position] = i
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=square, style=filled, fillcolor=white, label=\"\", width=0.2, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=3];\n")
	buf.WriteString("\n")

	for _, c := range cells {
		fmt.Fprintf(&buf, "  %q [pos=\"%.2f,%.2f!\", fillcolor=%s];\n",
			c.Position.String(),
			float64(c.Position.X)*spacing,
			float64(-c.Position.Y)*spacing,
			fillColor(c))
	}

	buf.WriteString("\n")
	for i, c := range cells {
		for _, n := range c.Potential {
			if index[n] <= i {
				continue
			}
			switch {
			case c.HasTreeEdge(n):
				fmt.Fprintf(&buf, "  %q -- %q;\n", c.Position.String(), n.String())
			case opts.Potential:
				fmt.Fprintf(&buf, "  %q -- %q [style=dotted, color=grey, penwidth=1];\n", c.Position.String(), n.String())
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fillColor(c grid.Cell) string {
	switch {
	case c.Active:
		return "orange"
	case c.Visited:
		return "lightblue"
	}
	return "white"
}

// RenderSVG renders a DOT graph produced by [ToDOT] to SVG.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.SetLayout(graphviz.NEATO).Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
