// Package cache stores composed documents and rendered artifacts.
//
// # Backends
//
//   - [NullCache]: never stores anything (--no-cache, tests)
//   - [FileCache]: one JSON file per entry under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (server)
//
// # Keys
//
// A [Keyer] derives keys from content hashes, so a changed page or a changed
// catalog ([KeyVersion]) never hits a stale entry:
//
//	keyer := cache.NewDefaultKeyer()
//	docKey := keyer.DocumentKey(page.Hash(p), cache.DocumentKeyOpts{MaxDepth: 16})
//	artKey := keyer.ArtifactKey(docHash, cache.ArtifactKeyOpts{Format: "html"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. hit is false when the key is absent or expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// TTLs for the cached entry types.
const (
	TTLDocument = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// KeyVersion is folded into every key. Bump it whenever the layout catalog or
// a renderer changes its output.
const KeyVersion = "v1"

// Key types reported to observability hooks.
const (
	KeyTypeDocument = "document"
	KeyTypeArtifact = "artifact"
)

// DocumentKeyOpts holds the compose options that affect a cached document.
type DocumentKeyOpts struct {
	MaxDepth int `json:"max_depth"`
}

// ArtifactKeyOpts holds the render options that affect a cached artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Standalone bool    `json:"standalone,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DocumentKey keys a composed document by page content hash.
	DocumentKey(pageHash string, opts DocumentKeyOpts) string

	// ArtifactKey keys a rendered artifact by composed document hash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the inputs of each key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(pageHash string, opts DocumentKeyOpts) string {
	return hashKey(KeyTypeDocument, KeyVersion, pageHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, KeyVersion, docHash, opts)
}
