// Package maze generates perfect mazes incrementally.
//
// A [Generator] runs the randomized iterative backtracker over a
// [grid.Graph]. Instead of computing the whole maze in one call it exposes
// [Generator.Step], which does a bounded amount of work (one carved edge or
// one stack pop) and returns a [Result] naming the cells it touched. Callers
// pace the steps themselves, which is what makes generation easy to animate,
// pause or inspect halfway through.
//
// # Usage
//
//	g, _ := grid.NewRect(16, 8)
//	gen, err := maze.New(g, grid.Key{}, maze.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	for res := range gen.All() {
//	    redraw(res.Touched)
//	}
//
// # Termination
//
// Every reachable cell is pushed once and popped once, so a graph with N
// reachable cells completes in at most 2N-1 effective steps. After that, Step
// keeps returning [KindAlreadyComplete] and never mutates the graph.
//
// # Randomness
//
// Neighbor choice is split into a [Selector] policy and a [Source] of random
// numbers. [Uniform] with [NewSource] gives reproducible mazes for a fixed
// seed; [First] ignores the source entirely.
package maze
