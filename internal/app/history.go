package app

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/repo/memory"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/repo/sqlite"
	"github.com/fairyhunter13/careerboost-api/internal/config"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

// OpenHistory builds the configured history store. The returned Pinger is
// nil for the in-memory backend, which has nothing to probe.
func OpenHistory(ctx context.Context, cfg config.Config) (domain.HistoryStore, Pinger, error) {
	switch cfg.HistoryBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, fmt.Errorf("op=app.OpenHistory: %w", err)
		}
		if err := WaitFor(ctx, "postgres", cfg.StartupTimeout, pool.Ping); err != nil {
			pool.Close()
			return nil, nil, err
		}
		h := postgres.NewHistory(pool, pool.Close)
		if err := h.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("op=app.OpenHistory: %w", err)
		}
		return h, pool, nil
	case "sqlite":
		h, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("op=app.OpenHistory: %w", err)
		}
		return h, h, nil
	default:
		return memory.NewHistory(), nil, nil
	}
}
