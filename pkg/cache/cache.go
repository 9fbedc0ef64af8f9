// Package cache remembers previous layouts between CLI runs.
//
// The layout command stores the snapshot of every layout it writes, keyed by
// the absolute input path and the layout bounds. The next run on the same
// input loads that snapshot and updates it incrementally instead of laying
// the items out from scratch.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a remembered layout stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
