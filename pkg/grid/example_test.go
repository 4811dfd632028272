package grid_test

import (
	"fmt"

	"github.com/matzehuels/mazegen/pkg/grid"
)

func ExampleGraph_basic() {
	g := grid.New()
	a, b := grid.Key{X: 0, Y: 0}, grid.Key{X: 1, Y: 0}
	_ = g.AddCell(a, grid.Meta{})
	_ = g.AddCell(b, grid.Meta{})
	_ = g.LinkPotential(a, b)
	_ = g.ConnectTree(a, b)

	fmt.Println("Cells:", g.Len())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Tree of 0.0:", g.Tree(a))
	// Output:
	// Cells: 2
	// Edges: 1
	// Tree of 0.0: [1.0]
}

func ExampleNewRect() {
	g, _ := grid.NewRect(3, 2)

	fmt.Println("Cells:", g.Len())
	fmt.Println("Neighbors of 1.0:", g.Potential(grid.Key{X: 1, Y: 0}))
	// Output:
	// Cells: 6
	// Neighbors of 1.0: [0.0 1.1 2.0]
}
