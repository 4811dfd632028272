package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mazegen/pkg/export"
	"github.com/matzehuels/mazegen/pkg/grid"
)

// layers selects what the animate view draws. Each field is toggled by a key.
type layers struct {
	walls     bool // w
	nodes     bool // n: active and unvisited cell markers
	tree      bool // e: carved passages
	potential bool // p: potential adjacency, colored around the active cell
}

func defaultLayers() layers { return layers{walls: true, nodes: true} }

func (l layers) String() string {
	var on []string
	for _, f := range []struct {
		name string
		on   bool
	}{{"walls", l.walls}, {"nodes", l.nodes}, {"edges", l.tree}, {"potential", l.potential}} {
		if f.on {
			on = append(on, f.name)
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, " ")
}

type glyphKind int

const (
	glyphBlank glyphKind = iota
	glyphWall
	glyphActive
	glyphUnvisited
	glyphTree
	glyphFrontier  // potential edge from the active cell to an unvisited cell
	glyphBlocked   // potential edge from the active cell to a visited cell
	glyphPotential // any other potential edge
)

var glyphStyles = map[glyphKind]lipgloss.Style{
	glyphWall:      styleWall,
	glyphActive:    styleActive,
	glyphUnvisited: styleUnvisited,
	glyphTree:      styleTreeEdge,
	glyphFrontier:  styleFrontier,
	glyphBlocked:   styleBlocked,
	glyphPotential: stylePotential,
}

type glyph struct {
	r    rune
	kind glyphKind
}

// canvas is the character grid of [export.Walls]: each cell is two columns
// wide with one separator column, and rows alternate borders and cells.
type canvas struct {
	rows [][]glyph
	lo   grid.Key
}

func newCanvas(walls string, lo grid.Key) *canvas {
	c := &canvas{lo: lo}
	for _, line := range strings.Split(strings.TrimSuffix(walls, "\n"), "\n") {
		row := make([]glyph, 0, len(line))
		for i := 0; i < len(line); {
			switch {
			case strings.HasPrefix(line[i:], "@@"):
				row = append(row, glyph{' ', glyphActive}, glyph{' ', glyphActive})
				i += 2
			case strings.HasPrefix(line[i:], "::"):
				row = append(row, glyph{'░', glyphUnvisited}, glyph{'░', glyphUnvisited})
				i += 2
			case line[i] == ' ':
				row = append(row, glyph{' ', glyphBlank})
				i++
			default:
				row = append(row, glyph{rune(line[i]), glyphWall})
				i++
			}
		}
		c.rows = append(c.rows, row)
	}
	return c
}

func (c *canvas) clear(kinds ...glyphKind) {
	for _, row := range c.rows {
		for i, g := range row {
			for _, k := range kinds {
				if g.kind == k {
					row[i] = glyph{' ', glyphBlank}
				}
			}
		}
	}
}

func (c *canvas) at(row, col int) *glyph {
	if row < 0 || row >= len(c.rows) || col < 0 || col >= len(c.rows[row]) {
		return nil
	}
	return &c.rows[row][col]
}

func (c *canvas) set(row, col int, r rune, kind glyphKind) {
	if g := c.at(row, col); g != nil {
		*g = glyph{r, kind}
	}
}

// link draws a connector between two cells at most one step apart.
func (c *canvas) link(a, b grid.Key, kind glyphKind) {
	dx, dy := b.X-a.X, b.Y-a.Y
	if abs(dx) > 1 || abs(dy) > 1 || (dx == 0 && dy == 0) {
		return
	}
	row := 2*(min(a.Y, b.Y)-c.lo.Y) + 1
	col := 3*(min(a.X, b.X)-c.lo.X) + 1
	switch {
	case dy == 0:
		c.set(row, col+2, '─', kind)
	case dx == 0:
		c.set(row+1, col, '│', kind)
		c.set(row+1, col+1, ' ', kind)
	default:
		r := '╱'
		if dx*dy > 0 {
			r = '╲'
		}
		if g := c.at(row+1, col+2); g != nil && (g.r == '╱' || g.r == '╲') && g.r != r {
			r = '╳'
		}
		c.set(row+1, col+2, r, kind)
	}
}

func (c *canvas) String() string {
	var b, run strings.Builder
	kind := glyphBlank
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if st, ok := glyphStyles[kind]; ok {
			b.WriteString(st.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for _, row := range c.rows {
		for _, g := range row {
			if g.kind != kind {
				flush()
				kind = g.kind
			}
			run.WriteRune(g.r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

// renderLayers draws g with the selected layers on the grid of export.Walls.
func renderLayers(g *grid.Graph, l layers) string {
	lo, _, ok := g.Bounds()
	if !ok {
		return ""
	}
	c := newCanvas(export.Walls(g), lo)
	if !l.walls {
		c.clear(glyphWall)
	}
	if !l.nodes {
		c.clear(glyphActive, glyphUnvisited)
	}
	if !l.potential && !l.tree {
		return c.String()
	}

	cells := g.Cells()
	index := make(map[grid.Key]grid.Cell, len(cells))
	for _, cell := range cells {
		index[cell.Position] = cell
	}
	if l.potential {
		for _, a := range cells {
			for _, k := range a.Potential {
				if b, ok := index[k]; ok && less(a.Position, k) {
					c.link(a.Position, k, potentialKind(a, b))
				}
			}
		}
	}
	if l.tree {
		for _, a := range cells {
			for _, k := range a.Tree {
				if less(a.Position, k) {
					c.link(a.Position, k, glyphTree)
				}
			}
		}
	}
	return c.String()
}

func potentialKind(a, b grid.Cell) glyphKind {
	switch {
	case a.Active && b.Visited, b.Active && a.Visited:
		return glyphBlocked
	case a.Active, b.Active:
		return glyphFrontier
	case a.HasTreeEdge(b.Position):
		return glyphTree
	}
	return glyphPotential
}

func less(a, b grid.Key) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
