package maze

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/mazegen/pkg/grid"
)

// Source is the random source consulted by a [Selector].
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

// defaultSeed is used by [NewSource] when seed is zero, so a zero seed is
// still reproducible.
const defaultSeed uint64 = 1

// NewSource returns a deterministic PCG source for the given seed.
// The same seed yields the same sequence on every platform.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// timeSource seeds a PCG from the wall clock. It is the default when no
// source is configured.
func timeSource() Source {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1|1))
}

// Selector picks the next cell among the unvisited potential neighbors of the
// current cell. candidates is never empty and is ordered by potential
// adjacency order. Implementations must return one of the candidates; any
// other key makes [Generator.Step] panic before the graph is changed.
//
// Select runs while the graph's write lock is held, so it must not call
// methods of the [grid.Graph] being carved.
type Selector interface {
	Select(candidates []grid.Key, src Source) grid.Key
}

// SelectorFunc adapts a function to [Selector].
type SelectorFunc func(candidates []grid.Key, src Source) grid.Key

// Select calls f.
func (f SelectorFunc) Select(candidates []grid.Key, src Source) grid.Key { return f(candidates, src) }

// Uniform picks a candidate uniformly at random. It is the default selector.
var Uniform Selector = SelectorFunc(func(candidates []grid.Key, src Source) grid.Key {
	return candidates[src.IntN(len(candidates))]
})

// First always picks the first candidate. Mazes built with it are fully
// determined by the graph's link order, which makes it useful in tests.
var First Selector = SelectorFunc(func(candidates []grid.Key, _ Source) grid.Key {
	return candidates[0]
})
