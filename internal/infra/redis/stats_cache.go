package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
	"meditation-platform/internal/infra/metrics"
)

const statsKey = "stats:global"

var _ repository.StatsCache = (*StatsCache)(nil)

type StatsCache struct {
	client RedisClient
}

func NewStatsCache(client RedisClient) *StatsCache {
	return &StatsCache{client: client}
}

func (c *StatsCache) Get(ctx context.Context) (*model.GlobalStats, error) {
	val, err := c.client.Get(ctx, statsKey)
	if errors.Is(err, Nil) {
		metrics.IncCacheRequest("stats", "miss")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s model.GlobalStats
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		// a corrupt entry is treated as a miss and overwritten by the next refresh
		metrics.IncCacheRequest("stats", "miss")
		return nil, nil
	}
	metrics.IncCacheRequest("stats", "hit")
	return &s, nil
}

func (c *StatsCache) Set(ctx context.Context, s *model.GlobalStats, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, data, ttl)
}
