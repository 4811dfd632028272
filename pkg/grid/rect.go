package grid

import "fmt"

// Connectivity selects which neighbors of a rectangular grid cell are
// potentially adjacent.
type Connectivity int

const (
	// Conn4 links the orthogonal neighbors only (W, N, S, E).
	Conn4 Connectivity = iota
	// Conn8 also links the diagonal neighbors.
	Conn8
)

// String returns "4" or "8".
func (c Connectivity) String() string {
	if c == Conn8 {
		return "8"
	}
	return "4"
}

// ParseConnectivity parses "4" or "8".
func ParseConnectivity(s string) (Connectivity, error) {
	switch s {
	case "", "4":
		return Conn4, nil
	case "8":
		return Conn8, nil
	}
	return Conn4, fmt.Errorf("invalid connectivity %q (must be 4 or 8)", s)
}

// MarshalText encodes the connectivity as "4" or "8".
func (c Connectivity) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText parses "4" or "8".
func (c *Connectivity) UnmarshalText(b []byte) error {
	parsed, err := ParseConnectivity(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Option configures [NewRect].
type Option func(*rectOptions)

type rectOptions struct {
	conn   Connectivity
	weight func(Key) int
}

// WithConnectivity selects 4- or 8-connectivity. The default is Conn4.
func WithConnectivity(c Connectivity) Option {
	return func(o *rectOptions) { o.conn = c }
}

// WithWeight sets each cell's Meta.Weight from fn.
func WithWeight(fn func(Key) int) Option {
	return func(o *rectOptions) { o.weight = fn }
}

// offsets yields neighbor deltas in scan order: dx outer, dy inner.
func (c Connectivity) offsets() [][2]int {
	var out [][2]int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c == Conn4 && abs(dx)+abs(dy) != 1 {
				continue
			}
			out = append(out, [2]int{dx, dy})
		}
	}
	return out
}

// NewRect builds a width×height grid with cells (0,0)..(width-1,height-1).
// Cells are added column by column and each cell's potential neighbors are
// linked in a fixed scan order, so [Graph.Potential] is deterministic.
func NewRect(width, height int, opts ...Option) (*Graph, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	o := rectOptions{conn: Conn4}
	for _, opt := range opts {
		opt(&o)
	}

	g := New()
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			k := Key{X: x, Y: y}
			var m Meta
			if o.weight != nil {
				m.Weight = o.weight(k)
			}
			if err := g.AddCell(k, m); err != nil {
				return nil, err
			}
		}
	}

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			k := Key{X: x, Y: y}
			for _, d := range o.conn.offsets() {
				n := Key{X: x + d[0], Y: y + d[1]}
				if !g.Has(n) {
					continue
				}
				if err := g.LinkPotential(k, n); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
