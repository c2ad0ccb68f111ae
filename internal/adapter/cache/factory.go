package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/careerboost-api/internal/config"
)

// NewStore builds the configured backend. rdb is required for "redis".
// The returned close function releases the sweep schedule.
func NewStore(cfg config.Config, rdb redis.UniversalClient) (Store, func() error, error) {
	switch cfg.CacheBackend {
	case "redis":
		if rdb == nil {
			return nil, nil, fmt.Errorf("op=cache.NewStore: redis backend without client")
		}
		return NewRedis(rdb, "careerboost:"), func() error { return nil }, nil
	default:
		m, err := NewMemory(WithCapacity(cfg.CacheCapacity), WithSweep(cfg.CacheSweepSpec))
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	}
}
