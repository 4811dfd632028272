package export

import (
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/mazegen/pkg/errors"
	"github.com/matzehuels/mazegen/pkg/grid"
)

// Output format names.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatTXT  = "txt"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatTXT}

// Write renders g in the named format to w.
func Write(w io.Writer, g *grid.Graph, format string, opts DOTOptions) error {
	var data []byte
	switch format {
	case FormatJSON:
		return WriteJSON(g, w)
	case FormatDOT:
		data = []byte(ToDOT(g, opts))
	case FormatSVG:
		svg, err := RenderSVG(ToDOT(g, opts))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		data = svg
	case FormatTXT:
		data = []byte(Walls(g))
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want one of %v)", format, Formats)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// IsFormat reports whether name is a supported format.
func IsFormat(name string) bool { return slices.Contains(Formats, name) }
