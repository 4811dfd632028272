package export

import (
	"strings"

	"github.com/matzehuels/mazegen/pkg/grid"
)

// Cell bodies used by [Walls]. Each cell is two characters wide.
const (
	bodyOpen      = "  "
	bodyUnvisited = "::"
	bodyActive    = "@@"
	bodyMissing   = "##"
)

// Walls draws the maze over the graph's bounding box. Rows run top to bottom
// with increasing Y. Unvisited cells are shaded, the active cell is marked
// with @, and coordinates inside the bounding box without a cell are filled.
// Diagonal passages of 8-connected grids are drawn at the shared corner as
// \ or /, or X when both diagonals are open.
func Walls(g *grid.Graph) string {
	lo, hi, ok := g.Bounds()
	if !ok {
		return ""
	}
	cells := make(map[grid.Key]grid.Cell, g.Len())
	for _, c := range g.Cells() {
		cells[c.Position] = c
	}
	open := func(a, b grid.Key) bool {
		c, ok := cells[a]
		return ok && c.HasTreeEdge(b)
	}

	var sb strings.Builder
	border := func(y int) {
		sb.WriteByte('+')
		for x := lo.X; x <= hi.X; x++ {
			a, b := grid.Key{X: x, Y: y}, grid.Key{X: x, Y: y + 1}
			if y >= lo.Y && y < hi.Y && open(a, b) {
				sb.WriteString("  ")
			} else {
				sb.WriteString("--")
			}
			if x == hi.X || y < lo.Y || y >= hi.Y {
				sb.WriteByte('+')
				continue
			}
			sb.WriteByte(corner(
				open(a, grid.Key{X: x + 1, Y: y + 1}),
				open(grid.Key{X: x + 1, Y: y}, b),
			))
		}
		sb.WriteByte('\n')
	}

	border(lo.Y - 1)
	for y := lo.Y; y <= hi.Y; y++ {
		sb.WriteByte('|')
		for x := lo.X; x <= hi.X; x++ {
			k := grid.Key{X: x, Y: y}
			c, ok := cells[k]
			switch {
			case !ok:
				sb.WriteString(bodyMissing)
			case c.Active:
				sb.WriteString(bodyActive)
			case !c.Visited:
				sb.WriteString(bodyUnvisited)
			default:
				sb.WriteString(bodyOpen)
			}
			if x < hi.X && open(k, grid.Key{X: x + 1, Y: y}) {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')
		border(y)
	}
	return sb.String()
}

func corner(down, up bool) byte {
	switch {
	case down && up:
		return 'X'
	case down:
		return '\\'
	case up:
		return '/'
	}
	return '+'
}
