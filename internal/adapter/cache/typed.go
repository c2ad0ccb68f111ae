package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	obs "github.com/fairyhunter13/careerboost-api/internal/adapter/observability"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

// Typed stores values of T as JSON under one namespace with a fixed TTL.
// Backend and codec failures are logged and degrade to a miss or a dropped
// write; the cache never fails a request.
type Typed[T any] struct {
	store     Store
	namespace string
	ttl       time.Duration
}

// NewTyped binds a store to a namespace and TTL.
func NewTyped[T any](store Store, namespace string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{store: store, namespace: namespace, ttl: ttl}
}

// Namespace returns the key prefix and metrics label of this cache.
func (c *Typed[T]) Namespace() string { return c.namespace }

// Key derives the canonical key for req within this namespace.
func (c *Typed[T]) Key(req any) (string, error) { return Key(c.namespace, req) }

// Get decodes the entry under key. ok is false on miss, expiry or error.
func (c *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		obs.RecordCacheLookup(c.namespace, "error")
		observability.LoggerFromContext(ctx).Warn("cache get failed",
			slog.String("cache", c.namespace), slog.Any("error", err))
		return zero, false
	}
	if !ok {
		obs.RecordCacheLookup(c.namespace, "miss")
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		obs.RecordCacheLookup(c.namespace, "error")
		observability.LoggerFromContext(ctx).Warn("cache entry undecodable, ignoring",
			slog.String("cache", c.namespace), slog.Any("error", err))
		return zero, false
	}
	obs.RecordCacheLookup(c.namespace, "hit")
	return v, true
}

// Put overwrites the entry under key.
func (c *Typed[T]) Put(ctx context.Context, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("cache encode failed",
			slog.String("cache", c.namespace), slog.Any("error", err))
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn("cache set failed",
			slog.String("cache", c.namespace), slog.Any("error", err))
	}
}
