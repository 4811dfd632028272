package export

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/matzehuels/mazegen/pkg/cache"
	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/observability"
)

// Cacheable reports whether output in format is worth caching. JSON and text
// are cheaper to render than to hash.
func Cacheable(format string) bool {
	return format == FormatDOT || format == FormatSVG
}

// Fingerprint hashes the graph's JSON snapshot. Two graphs with the same
// cells, adjacency, and traversal state have the same fingerprint.
func Fingerprint(g *grid.Graph) (string, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// WriteCached renders like [Write] but serves DOT and SVG output from c when
// the same graph was rendered with the same options before. It reports
// whether the output came from the cache. Cache failures fall back to
// rendering.
func WriteCached(ctx context.Context, c cache.Cache, ttl time.Duration, w io.Writer, g *grid.Graph, format string, opts DOTOptions) (bool, error) {
	if c == nil || !Cacheable(format) {
		return false, Write(w, g, format, opts)
	}
	fp, err := Fingerprint(g)
	if err != nil {
		return false, err
	}
	key := cache.ArtifactKey(fp, cache.ArtifactOpts{Format: format, Potential: opts.Potential})
	data, ok, err := c.Get(ctx, key)
	hit := err == nil && ok
	observability.Cache().OnLookup(ctx, format, hit)
	if hit {
		_, err := w.Write(data)
		return true, err
	}

	var buf bytes.Buffer
	if err := Write(&buf, g, format, opts); err != nil {
		return false, err
	}
	_ = c.Set(ctx, key, buf.Bytes(), ttl)
	_, err = w.Write(buf.Bytes())
	return false, err
}
