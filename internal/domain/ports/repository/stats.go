package repository

import (
	"context"
	"time"

	"meditation-platform/internal/domain/model"
)

type StatsRepository interface {
	// Aggregate computes the global read model in one query. Both days are
	// calendar day keys in the configured timezone.
	Aggregate(ctx context.Context, tx Tx, activeSinceDay, today string) (*model.GlobalStats, error)
}

// StatsCache stores the last computed read model; Get returns (nil, nil) on miss.
type StatsCache interface {
	Get(ctx context.Context) (*model.GlobalStats, error)
	Set(ctx context.Context, s *model.GlobalStats, ttl time.Duration) error
}
