// Package cache stores pipeline artifacts (explored graphs, layouts and
// rendered output) behind a small byte-oriented interface.
//
// Three backends are provided: [NullCache] disables caching, [FileCache]
// keeps entries under a local directory for CLI use, and [RedisCache] shares
// entries between API servers. Keys are built by a [Keyer] from content
// hashes, so identical inputs map to identical keys across processes.
package cache

import (
	"context"
	"time"
)

// Default TTLs per artifact kind.
const (
	GraphTTL    = 30 * 24 * time.Hour
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry. A zero or negative ttl means
// the entry never expires. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
