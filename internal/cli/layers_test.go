package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/mazegen/pkg/export"
	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/maze"
)

func carve(t *testing.T, w, h, steps int, opts ...grid.Option) *grid.Graph {
	t.Helper()
	g, err := grid.NewRect(w, h, opts...)
	if err != nil {
		t.Fatal(err)
	}
	gen, err := maze.New(g, grid.Key{}, maze.WithSelector(maze.First))
	if err != nil {
		t.Fatal(err)
	}
	for range steps {
		gen.Step()
	}
	return g
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestRenderLayersDefault(t *testing.T) {
	g := carve(t, 2, 1, 0)
	got := renderLayers(g, defaultLayers())
	want := "+--+--+\n|  |░░|\n+--+--+\n"
	if got != want {
		t.Errorf("renderLayers() =\n%q\nwant\n%q", got, want)
	}
	if n := len(lines(got)); n != len(lines(export.Walls(g))) {
		t.Errorf("rows = %d, want the wall grid's", n)
	}
}

func TestRenderLayersPotentialOnly(t *testing.T) {
	g := carve(t, 2, 1, 0)
	got := lines(renderLayers(g, layers{potential: true}))
	if got[1] != "   ─   " {
		t.Errorf("cell row = %q", got[1])
	}
	if strings.TrimSpace(got[0]) != "" || strings.TrimSpace(got[2]) != "" {
		t.Errorf("border rows should be blank without walls: %q", got)
	}
}

func TestRenderLayersTreeOverWalls(t *testing.T) {
	g := carve(t, 2, 1, 1)
	got := lines(renderLayers(g, layers{walls: true, nodes: true, tree: true}))
	if got[1] != "|  ─  |" {
		t.Errorf("cell row = %q", got[1])
	}
}

func TestRenderLayersVertical(t *testing.T) {
	g := carve(t, 1, 2, 0)
	got := lines(renderLayers(g, layers{potential: true}))
	if len(got) != 5 || got[2] != " │  " {
		t.Errorf("rows = %q", got)
	}
}

func TestRenderLayersDiagonals(t *testing.T) {
	g := carve(t, 2, 2, 0, grid.WithConnectivity(grid.Conn8))
	got := lines(renderLayers(g, layers{potential: true}))
	if !strings.Contains(got[2], "╳") {
		t.Errorf("crossing diagonals should meet at the corner: %q", got[2])
	}
}

func TestPotentialKind(t *testing.T) {
	active := grid.Cell{Position: grid.Key{}, Active: true, Visited: true}
	fresh := grid.Cell{Position: grid.Key{X: 1}}
	seen := grid.Cell{Position: grid.Key{X: 1}, Visited: true}
	carved := grid.Cell{Position: grid.Key{Y: 1}, Visited: true, Tree: []grid.Key{{Y: 2}}}
	other := grid.Cell{Position: grid.Key{Y: 2}, Visited: true}

	tests := []struct {
		name string
		a, b grid.Cell
		want glyphKind
	}{
		{"active to unvisited", active, fresh, glyphFrontier},
		{"unvisited to active", fresh, active, glyphFrontier},
		{"active to visited", active, seen, glyphBlocked},
		{"carved", carved, other, glyphTree},
		{"idle", fresh, other, glyphPotential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := potentialKind(tt.a, tt.b); got != tt.want {
				t.Errorf("potentialKind() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLayersString(t *testing.T) {
	if got := defaultLayers().String(); got != "walls nodes" {
		t.Errorf("String() = %q", got)
	}
	if got := (layers{}).String(); got != "none" {
		t.Errorf("String() = %q", got)
	}
}
