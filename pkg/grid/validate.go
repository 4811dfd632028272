package grid

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrAsymmetricEdge is returned by [Graph.Validate] when b is a tree
	// neighbor of a but not the other way around.
	ErrAsymmetricEdge = errors.New("tree edge is not symmetric")

	// ErrNotPotential is returned by [Graph.Validate] when a tree edge does not
	// appear in the cell's potential adjacency.
	ErrNotPotential = errors.New("tree edge outside potential adjacency")

	// ErrCycle is returned by [Graph.Validate] when the tree edges contain a cycle.
	ErrCycle = errors.New("tree edges contain a cycle")

	// ErrMultipleActive is returned by [Graph.Validate] when more than one cell
	// is active.
	ErrMultipleActive = errors.New("more than one active cell")
)

// Validate checks the structural invariants of the traversal state: tree
// edges are symmetric, lie within potential adjacency and form a forest, and
// at most one cell is active. It does not know whether a generator is running,
// so "exactly one active" is left to the caller.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	active := 0
	for _, k := range g.order {
		c := g.cells[k]
		if c.active {
			active++
		}
		for _, n := range c.tree {
			if !slices.Contains(c.potential, n) {
				return fmt.Errorf("%w: %s - %s", ErrNotPotential, k, n)
			}
			nc, ok := g.cells[n]
			if !ok || !slices.Contains(nc.tree, k) {
				return fmt.Errorf("%w: %s - %s", ErrAsymmetricEdge, k, n)
			}
		}
	}
	if active > 1 {
		return fmt.Errorf("%w: %d", ErrMultipleActive, active)
	}
	return g.checkForest()
}

// checkForest detects cycles with an iterative DFS that ignores the edge back
// to the parent. Symmetry has already been checked.
func (g *Graph) checkForest() error {
	seen := make(map[Key]bool, len(g.cells))
	type frame struct{ key, parent Key }

	for _, root := range g.order {
		if seen[root] {
			continue
		}
		seen[root] = true
		stack := []frame{{key: root, parent: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range g.cells[f.key].tree {
				if n == f.parent {
					continue
				}
				if seen[n] {
					return fmt.Errorf("%w: through %s", ErrCycle, n)
				}
				seen[n] = true
				stack = append(stack, frame{key: n, parent: f.key})
			}
		}
	}
	return nil
}
