package usecase

import (
	"context"
	"log/slog"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/cache"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

// getOrLoad runs load through l keyed on req. A nil loader, or a request
// that cannot be keyed, bypasses the cache.
func getOrLoad[T any](ctx context.Context, l *cache.Loader[T], req any, load cache.LoadFunc[T]) (T, error) {
	if l == nil {
		v, _, err := load(ctx)
		return v, err
	}
	key, err := l.Cache().Key(req)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("cache key failed, loading uncached",
			slog.String("namespace", l.Cache().Namespace()),
			slog.Any("error", err))
		v, _, err := load(ctx)
		return v, err
	}
	return l.GetOrLoad(ctx, key, load)
}
