// Package cache provides the TTL response cache shared by every
// provider-facing use case. Values are stored as bytes behind Store; Typed
// adds a JSON codec, a namespace and a TTL on top.
package cache

import (
	"context"
	"time"
)

// Store is a byte-level keyed store with per-entry TTL. Get reports a miss
// both for keys never stored and for expired entries.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Clock returns the current time. Tests substitute a deterministic one.
type Clock func() time.Time
