// Package cache provides caching for computed layouts and rendered
// artifacts.
//
// Packing a wall is deterministic, so a layout is fully determined by
// the manifest content and the world geometry. The cache exploits that:
// keys are derived from content hashes, and a hit is always safe to
// use. Backends include a file cache for CLI usage, a Redis cache for
// server deployments, and a null cache for tests and --no-cache runs.
package cache

import (
	"context"
	"time"
)

// TTLs for the different cached artifact kinds. Layouts and artifacts
// are content-addressed, so expiry exists only to bound disk usage,
// not for correctness.
const (
	// TTLLayout is how long computed layouts are kept.
	TTLLayout = 30 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (SVG, JSON) are kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey keys a computed layout by manifest hash and geometry.
	LayoutKey(manifestHash string, geometry any) string

	// ArtifactKey keys a rendered artifact by layout hash and format.
	ArtifactKey(layoutHash, format string) string
}

// DefaultKeyer produces hash-based keys with a type prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(manifestHash string, geometry any) string {
	return hashKey("layout", manifestHash, geometry)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash, format string) string {
	return hashKey("artifact", layoutHash, format)
}
