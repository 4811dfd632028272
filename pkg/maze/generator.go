package maze

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/matzehuels/mazegen/pkg/grid"
)

// ErrInvalidStartKey is returned by [New] when the start key is not a cell of
// the graph. No generator is created in that case.
var ErrInvalidStartKey = errors.New("start key not in graph")

// State is the lifecycle state of a [Generator]. Transitions only go forward.
type State int

const (
	// Idle is the state before construction finishes. A generator returned by
	// [New] is never Idle.
	Idle State = iota
	// Running means more steps are pending.
	Running
	// Complete means the stack is empty and every reachable cell is carved.
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Kind discriminates the outcome of one [Generator.Step].
type Kind int

const (
	// KindProgress means a tree edge was carved into an unvisited neighbor.
	KindProgress Kind = iota + 1
	// KindBacktrack means the current cell had no unvisited neighbors and the
	// generator returned to the previous cell on the stack.
	KindBacktrack
	// KindComplete means the last cell was popped. It is returned exactly once.
	KindComplete
	// KindAlreadyComplete is returned by every Step after completion. Nothing
	// is mutated.
	KindAlreadyComplete
)

var kindNames = map[Kind]string{
	KindProgress:        "progress",
	KindBacktrack:       "backtrack",
	KindComplete:        "complete",
	KindAlreadyComplete: "already_complete",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown step kind %q", b)
}

// Result describes one step.
type Result struct {
	Kind Kind `json:"kind"`
	// Touched lists the cells whose observable state changed, in the order
	// [current, next] for progress and backtrack steps and [current] for the
	// completion step. It is empty for KindAlreadyComplete.
	Touched []grid.Key `json:"touched"`
	// Step is the 1-based index of this step, or the total step count for
	// KindAlreadyComplete.
	Step int `json:"step"`
}

// Generator carves a perfect maze into a [grid.Graph] one step at a time
// using the randomized iterative backtracker: an explicit stack of visited
// cells is extended into a random unvisited neighbor when possible and popped
// when not.
//
// A Generator is single-use. Its progress lives in the graph's traversal
// state, so a new maze needs a fresh graph and a new Generator.
// Step must not be called concurrently with itself; graph reads from other
// goroutines are safe at any time.
type Generator struct {
	g        *grid.Graph
	start    grid.Key
	stack    []grid.Key
	state    State
	steps    int
	src      Source
	selector Selector
}

// Option configures a [Generator].
type Option func(*Generator)

// WithSource sets the random source. The default is seeded from the clock.
func WithSource(src Source) Option {
	return func(gen *Generator) {
		if src != nil {
			gen.src = src
		}
	}
}

// WithSeed is shorthand for WithSource(NewSource(seed)).
func WithSeed(seed uint64) Option {
	return WithSource(NewSource(seed))
}

// WithSelector sets the neighbor selection policy. The default is [Uniform].
func WithSelector(sel Selector) Option {
	return func(gen *Generator) {
		if sel != nil {
			gen.selector = sel
		}
	}
}

// New creates a generator bound to g, starting at start. The start cell is
// marked visited and active. If start has no potential neighbors the
// generator is complete immediately and the start cell is left inactive.
func New(g *grid.Graph, start grid.Key, opts ...Option) (*Generator, error) {
	if g == nil || !g.Has(start) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStartKey, start)
	}
	gen := &Generator{
		g:        g,
		start:    start,
		state:    Idle,
		selector: Uniform,
	}
	for _, opt := range opts {
		opt(gen)
	}
	if gen.src == nil {
		gen.src = timeSource()
	}

	err := g.Update(func(m *grid.Mutator) error {
		if err := m.SetVisited(start); err != nil {
			return err
		}
		if len(m.Potential(start)) == 0 {
			gen.state = Complete
			return nil
		}
		gen.stack = append(gen.stack, start)
		gen.state = Running
		return m.SetActive(start, true)
	})
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// Step performs one unit of work and reports what changed. Once the
// generator is complete every call returns KindAlreadyComplete without
// touching the graph.
func (gen *Generator) Step() Result {
	if gen.state == Complete {
		return Result{Kind: KindAlreadyComplete, Step: gen.steps}
	}

	var res Result
	err := gen.g.Update(func(m *grid.Mutator) error {
		top := gen.stack[len(gen.stack)-1]
		candidates := unvisited(m, top)

		switch {
		case len(candidates) > 0:
			next := gen.selector.Select(candidates, gen.src)
			if !slices.Contains(candidates, next) {
				return fmt.Errorf("selector returned non-candidate %s", next)
			}
			if err := m.ConnectTree(top, next); err != nil {
				return err
			}
			if err := m.SetVisited(next); err != nil {
				return err
			}
			if err := m.SetActive(next, true); err != nil {
				return err
			}
			if err := m.SetActive(top, false); err != nil {
				return err
			}
			gen.stack = append(gen.stack, next)
			res = Result{Kind: KindProgress, Touched: []grid.Key{top, next}}

		case len(gen.stack) > 1:
			prev := gen.stack[len(gen.stack)-2]
			if err := m.SetActive(top, false); err != nil {
				return err
			}
			if err := m.SetActive(prev, true); err != nil {
				return err
			}
			gen.stack = gen.stack[:len(gen.stack)-1]
			res = Result{Kind: KindBacktrack, Touched: []grid.Key{top, prev}}

		default:
			if err := m.SetActive(top, false); err != nil {
				return err
			}
			gen.stack = gen.stack[:0]
			gen.state = Complete
			res = Result{Kind: KindComplete, Touched: []grid.Key{top}}
		}
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("maze: %v", err))
	}

	gen.steps++
	res.Step = gen.steps
	return res
}

func unvisited(m *grid.Mutator, k grid.Key) []grid.Key {
	var out []grid.Key
	for _, n := range m.Potential(k) {
		if !m.Visited(n) {
			out = append(out, n)
		}
	}
	return out
}

// All returns the remaining steps as a sequence. It stops after the
// KindComplete result and never yields KindAlreadyComplete, so ranging over
// it a second time after completion yields nothing.
func (gen *Generator) All() iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for !gen.IsComplete() {
			if !yield(gen.Step()) {
				return
			}
		}
	}
}

// IsComplete reports whether the generator has finished.
func (gen *Generator) IsComplete() bool { return gen.state == Complete }

// State returns the current lifecycle state.
func (gen *Generator) State() State { return gen.state }

// Steps returns the number of effective steps taken so far.
func (gen *Generator) Steps() int { return gen.steps }

// Depth returns the current stack length.
func (gen *Generator) Depth() int { return len(gen.stack) }

// Start returns the start cell.
func (gen *Generator) Start() grid.Key { return gen.start }

// Current returns the cell on top of the stack. ok is false once complete.
func (gen *Generator) Current() (grid.Key, bool) {
	if len(gen.stack) == 0 {
		return grid.Key{}, false
	}
	return gen.stack[len(gen.stack)-1], true
}

// Graph returns the graph the generator writes to.
func (gen *Generator) Graph() *grid.Graph { return gen.g }
