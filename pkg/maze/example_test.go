package maze_test

import (
	"fmt"

	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/maze"
)

func ExampleGenerator_Step() {
	g, _ := grid.NewRect(3, 1)
	gen, _ := maze.New(g, grid.Key{}, maze.WithSelector(maze.First))

	for !gen.IsComplete() {
		res := gen.Step()
		fmt.Println(res.Step, res.Kind, res.Touched)
	}
	fmt.Println(gen.Step().Kind)
	// Output:
	// 1 progress [0.0 1.0]
	// 2 progress [1.0 2.0]
	// 3 backtrack [2.0 1.0]
	// 4 backtrack [1.0 0.0]
	// 5 complete [0.0]
	// already_complete
}

func ExampleGenerator_All() {
	g, _ := grid.NewRect(8, 8)
	gen, _ := maze.New(g, grid.Key{X: 3, Y: 3}, maze.WithSeed(42))

	carved := 0
	for res := range gen.All() {
		if res.Kind == maze.KindProgress {
			carved++
		}
	}
	fmt.Println("Carved:", carved)
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Steps:", gen.Steps())
	// Output:
	// Carved: 63
	// Edges: 63
	// Steps: 127
}
