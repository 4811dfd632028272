package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/mazegen/pkg/grid"
)

type snapshot struct {
	Cells []cellJSON  `json:"cells"`
	Edges [][2]string `json:"edges"`
}

type cellJSON struct {
	Key       string   `json:"key"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Weight    int      `json:"weight,omitempty"`
	Potential []string `json:"potential"`
	Visited   bool     `json:"visited,omitempty"`
	Active    bool     `json:"active,omitempty"`
}

// WriteJSON encodes the graph as JSON and writes it to w. Cells appear in
// insertion order with their potential neighbors in stored order. Each tree
// edge is listed once.
func WriteJSON(g *grid.Graph, w io.Writer) error {
	cells := g.Cells()
	out := snapshot{
		Cells: make([]cellJSON, len(cells)),
		Edges: make([][2]string, 0, g.EdgeCount()),
	}

	index := make(map[grid.Key]int, len(cells))
	for i, c := range cells {
		index[c.Position] = i
	}
	for i, c := range cells {
		out.Cells[i] = cellJSON{
			Key:       c.Position.String(),
			X:         c.Position.X,
			Y:         c.Position.Y,
			Weight:    c.Meta.Weight,
			Potential: keyStrings(c.Potential),
			Visited:   c.Visited,
			Active:    c.Active,
		}
		for _, t := range c.Tree {
			if index[t] > i {
				out.Edges = append(out.Edges, [2]string{c.Position.String(), t.String()})
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a snapshot written by [WriteJSON] into a new graph.
// The result is validated before it is returned.
func ReadJSON(r io.Reader) (*grid.Graph, error) {
	var in snapshot
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := grid.New()
	keys := make([]grid.Key, len(in.Cells))
	for i, c := range in.Cells {
		keys[i] = grid.Key{X: c.X, Y: c.Y}
		if err := g.AddCell(keys[i], grid.Meta{Weight: c.Weight}); err != nil {
			return nil, err
		}
	}
	for i, c := range in.Cells {
		for _, s := range c.Potential {
			n, err := grid.ParseKey(s)
			if err != nil {
				return nil, err
			}
			if err := g.LinkPotential(keys[i], n); err != nil {
				return nil, fmt.Errorf("cell %s: %w", keys[i], err)
			}
		}
	}
	for _, e := range in.Edges {
		a, err := grid.ParseKey(e[0])
		if err != nil {
			return nil, err
		}
		b, err := grid.ParseKey(e[1])
		if err != nil {
			return nil, err
		}
		if err := g.ConnectTree(a, b); err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", a, b, err)
		}
	}

	err := g.Update(func(m *grid.Mutator) error {
		for i, c := range in.Cells {
			if c.Visited {
				if err := m.SetVisited(keys[i]); err != nil {
					return err
				}
			}
			if c.Active {
				if err := m.SetActive(keys[i], true); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func keyStrings(keys []grid.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
