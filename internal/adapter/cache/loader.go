package cache

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches a fresh value. cacheable=false keeps the value out of the
// cache, which is how degraded fallback results are excluded.
type LoadFunc[T any] func(ctx context.Context) (value T, cacheable bool, err error)

// Loader is read-through on top of Typed. Without dedup, concurrent misses
// on one key each call load and the last write wins; with dedup they share
// a single in-flight load. A shared load runs detached from the caller that
// started it, so one caller cancelling does not fail the others; providers
// still bound it with their own timeouts.
type Loader[T any] struct {
	cache *Typed[T]
	dedup bool
	group singleflight.Group
}

// NewLoader returns a read-through loader.
func NewLoader[T any](c *Typed[T], dedup bool) *Loader[T] {
	return &Loader[T]{cache: c, dedup: dedup}
}

// Cache exposes the underlying typed cache.
func (l *Loader[T]) Cache() *Typed[T] { return l.cache }

// GetOrLoad returns the cached value for key or loads, stores and returns a
// fresh one. Errors from load are returned and never cached.
func (l *Loader[T]) GetOrLoad(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	if v, ok := l.cache.Get(ctx, key); ok {
		return v, nil
	}
	if !l.dedup {
		return l.load(ctx, key, load)
	}
	ch := l.group.DoChan(key, func() (any, error) {
		return l.load(context.WithoutCancel(ctx), key, load)
	})
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v := res.Val.(T)
		if res.Shared {
			return clone(v), nil
		}
		return v, nil
	}
}

// clone deep-copies v through its JSON form so waiters sharing a load do not
// share slices. On a codec error v is returned as is.
func clone[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func (l *Loader[T]) load(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	v, cacheable, err := load(ctx)
	if err != nil {
		return v, err
	}
	if cacheable {
		l.cache.Put(ctx, key, v)
	}
	return v, nil
}
