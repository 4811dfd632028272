package grid

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrDuplicateKey is returned by [Graph.AddCell] when a cell with the same
	// key already exists. Keys must be unique across the graph.
	ErrDuplicateKey = errors.New("duplicate cell key")

	// ErrUnknownCell is returned by [Graph.LinkPotential] and [Graph.ConnectTree]
	// when one of the endpoints has not been added.
	ErrUnknownCell = errors.New("unknown cell")

	// ErrNotAdjacent is returned by [Graph.ConnectTree] when the two cells are not
	// potential neighbors of each other, and by [Graph.LinkPotential] for self-links.
	ErrNotAdjacent = errors.New("cells are not adjacent")

	// ErrInvalidDimensions is returned by [NewRect] when width or height is below 1.
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")

	// ErrInvalidKey is returned by [ParseKey] for malformed input.
	ErrInvalidKey = errors.New("invalid cell key")
)

// Key identifies a cell by its integer grid coordinates.
type Key struct {
	X, Y int
}

// String formats the key as "x.y".
func (k Key) String() string {
	return strconv.Itoa(k.X) + "." + strconv.Itoa(k.Y)
}

// ParseKey parses a key in the "x.y" form produced by [Key.String].
// A comma is accepted as separator as well.
func ParseKey(s string) (Key, error) {
	sep := "."
	if strings.Contains(s, ",") {
		sep = ","
	}
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), sep)
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key{X: x, Y: y}, nil
}

// MarshalText encodes the key as "x.y".
func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses a key with [ParseKey].
func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Meta is the fixed-shape metadata attached to a cell at construction.
type Meta struct {
	Weight int `json:"weight"`
}

// Cell is a read-only view of one grid cell. Views returned by [Graph.Cell]
// are copies; mutating their slices does not affect the graph.
type Cell struct {
	Position  Key   `json:"position"`
	Meta      Meta  `json:"meta"`
	Potential []Key `json:"potential"` // structurally connectable neighbors, in link order
	Tree      []Key `json:"tree"`      // neighbors actually connected by the maze
	Visited   bool  `json:"visited"`
	Active    bool  `json:"active"`
}

// HasTreeEdge reports whether k is connected to the cell by a tree edge.
func (c Cell) HasTreeEdge(k Key) bool { return slices.Contains(c.Tree, k) }

type cell struct {
	meta      Meta
	potential []Key
	tree      []Key
	visited   bool
	active    bool
}

// Graph is a set of cells with fixed potential adjacency and mutable traversal
// state. Topology is built with [Graph.AddCell] and [Graph.LinkPotential];
// traversal state is written only through [Graph.Update], which the maze
// generator uses to apply each step atomically.
//
// All methods are safe for concurrent use. Readers never observe a partially
// applied update.
//
// The zero value is not usable - use [New] or [NewRect].
type Graph struct {
	mu    sync.RWMutex
	cells map[Key]*cell
	order []Key
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{cells: make(map[Key]*cell)}
}

// AddCell registers a cell with no tree edges, not visited and not active.
// Returns ErrDuplicateKey if the key already exists.
func (g *Graph) AddCell(k Key, m Meta) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.cells[k]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, k)
	}
	g.cells[k] = &cell{meta: m}
	g.order = append(g.order, k)
	return nil
}

// LinkPotential records that a and b may be connected by the maze.
// Both cells must exist, otherwise ErrUnknownCell is returned. Linking an
// already linked pair is a no-op.
func (g *Graph) LinkPotential(a, b Key) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ca, cb, err := g.pair(a, b)
	if err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("%w: %s to itself", ErrNotAdjacent, a)
	}
	if !slices.Contains(ca.potential, b) {
		ca.potential = append(ca.potential, b)
	}
	if !slices.Contains(cb.potential, a) {
		cb.potential = append(cb.potential, a)
	}
	return nil
}

// ConnectTree adds the symmetric tree edge a-b. The cells must be potential
// neighbors of each other, otherwise ErrNotAdjacent is returned.
func (g *Graph) ConnectTree(a, b Key) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connect(a, b)
}

func (g *Graph) connect(a, b Key) error {
	ca, cb, err := g.pair(a, b)
	if err != nil {
		return err
	}
	if !slices.Contains(ca.potential, b) || !slices.Contains(cb.potential, a) {
		return fmt.Errorf("%w: %s - %s", ErrNotAdjacent, a, b)
	}
	if slices.Contains(ca.tree, b) {
		return nil
	}
	ca.tree = append(ca.tree, b)
	cb.tree = append(cb.tree, a)
	g.edges++
	return nil
}

func (g *Graph) pair(a, b Key) (*cell, *cell, error) {
	ca, ok := g.cells[a]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCell, a)
	}
	cb, ok := g.cells[b]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCell, b)
	}
	return ca, cb, nil
}

// Mutator applies traversal-state changes inside [Graph.Update].
// It must not be retained after the update function returns.
type Mutator struct {
	g *Graph
}

// ConnectTree behaves like [Graph.ConnectTree] within the current update.
func (m *Mutator) ConnectTree(a, b Key) error { return m.g.connect(a, b) }

// SetVisited marks k as visited. Visited is monotonic: passing false on a
// visited cell is ignored.
func (m *Mutator) SetVisited(k Key) error {
	c, ok := m.g.cells[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCell, k)
	}
	c.visited = true
	return nil
}

// SetActive sets the active flag of k.
func (m *Mutator) SetActive(k Key, active bool) error {
	c, ok := m.g.cells[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCell, k)
	}
	c.active = active
	return nil
}

// Visited reports whether k is visited, for reads inside an update.
func (m *Mutator) Visited(k Key) bool {
	c, ok := m.g.cells[k]
	return ok && c.visited
}

// Potential returns the potential neighbors of k for reads inside an update.
// The returned slice must not be modified.
func (m *Mutator) Potential(k Key) []Key {
	if c, ok := m.g.cells[k]; ok {
		return c.potential
	}
	return nil
}

// Update runs fn with exclusive access to the graph's traversal state.
// Concurrent readers observe either all or none of fn's changes.
func (g *Graph) Update(fn func(m *Mutator) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(&Mutator{g: g})
}

// Has reports whether a cell with key k exists.
func (g *Graph) Has(k Key) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.cells[k]
	return ok
}

// Cell returns a copy of the cell at k.
func (g *Graph) Cell(k Key) (Cell, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.cells[k]
	if !ok {
		return Cell{}, false
	}
	return Cell{
		Position:  k,
		Meta:      c.meta,
		Potential: slices.Clone(c.potential),
		Tree:      slices.Clone(c.tree),
		Visited:   c.visited,
		Active:    c.active,
	}, true
}

// Potential returns the potential neighbors of k in link order.
func (g *Graph) Potential(k Key) []Key {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if c, ok := g.cells[k]; ok {
		return slices.Clone(c.potential)
	}
	return nil
}

// Tree returns the tree neighbors of k in connection order.
func (g *Graph) Tree(k Key) []Key {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if c, ok := g.cells[k]; ok {
		return slices.Clone(c.tree)
	}
	return nil
}

// Visited reports whether k has been visited.
func (g *Graph) Visited(k Key) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.cells[k]
	return ok && c.visited
}

// Active reports whether k is the generator's current cell.
func (g *Graph) Active(k Key) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.cells[k]
	return ok && c.active
}

// ActiveKey returns the active cell, if any.
func (g *Graph) ActiveKey() (Key, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, k := range g.order {
		if g.cells[k].active {
			return k, true
		}
	}
	return Key{}, false
}

// Keys returns all cell keys in insertion order.
func (g *Graph) Keys() []Key {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.order)
}

// Cells returns copies of all cells in insertion order.
func (g *Graph) Cells() []Cell {
	keys := g.Keys()
	out := make([]Cell, 0, len(keys))
	for _, k := range keys {
		if c, ok := g.Cell(k); ok {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of cells.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// EdgeCount returns the number of undirected tree edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges
}

// VisitedCount returns the number of visited cells.
func (g *Graph) VisitedCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, c := range g.cells {
		if c.visited {
			n++
		}
	}
	return n
}

// Bounds returns the smallest and largest coordinates present in the graph.
// ok is false for an empty graph.
func (g *Graph) Bounds() (lo, hi Key, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i, k := range g.order {
		if i == 0 {
			lo, hi = k, k
			continue
		}
		lo.X, lo.Y = min(lo.X, k.X), min(lo.Y, k.Y)
		hi.X, hi.Y = max(hi.X, k.X), max(hi.Y, k.Y)
	}
	return lo, hi, len(g.order) > 0
}
