// Package cache stores rendered maze artifacts.
//
// Rendering a large maze to SVG runs Graphviz, which dominates export time.
// Artifacts are keyed by a hash of the maze snapshot and the render options,
// so the same maze in the same format is only rendered once. The HTTP API
// keeps artifacts in memory; the CLI keeps them on disk under the user cache
// directory.
//
// # Implementations
//
//   - [MemoryCache]: bounded, in-process, safe for concurrent use
//   - [FileCache]: one JSON file per entry with an optional expiry
//   - [NullCache]: never stores anything, for --no-cache
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported by ok == false with a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactOpts are the render options that distinguish artifacts of the same
// maze.
type ArtifactOpts struct {
	Format    string
	Potential bool
}

// ArtifactKey returns the cache key for a rendered maze.
func ArtifactKey(snapshotHash string, opts ArtifactOpts) string {
	return fmt.Sprintf("artifact:%s:%s:%t", snapshotHash, opts.Format, opts.Potential)
}
