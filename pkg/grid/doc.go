// Package grid provides the grid graph that mazes are carved from.
//
// # Overview
//
// A [Graph] holds cells addressed by integer coordinates ([Key]). Each cell has
// a fixed list of potential neighbors, the pairs that may become maze
// passages, and mutable traversal state: the tree edges carved so far plus
// the visited and active flags.
//
// Topology is built once, either by hand or with [NewRect]:
//
//	g := grid.New()
//	_ = g.AddCell(grid.Key{X: 0, Y: 0}, grid.Meta{})
//	_ = g.AddCell(grid.Key{X: 1, Y: 0}, grid.Meta{})
//	_ = g.LinkPotential(grid.Key{X: 0, Y: 0}, grid.Key{X: 1, Y: 0})
//
//	rect, err := grid.NewRect(64, 32) // 4-connected by default
//
// # Traversal State
//
// Tree edges only ever grow, visited flags never revert, and at most one cell
// is active. Tree edges are added with [Graph.ConnectTree] or, inside a
// generator step, through the [Mutator] passed to [Graph.Update].
// [Graph.Validate] checks the structural invariants and is cheap enough to
// run after every step in tests.
//
// # Concurrency
//
// All methods are safe for concurrent use. A whole [Graph.Update] call is one
// critical section, so a reader never sees an edge without the flags that
// came with it.
package grid
