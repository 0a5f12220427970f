package usecase

import (
	"context"

	"meditation-platform/internal/domain/model"
)

// StatsRefresher is the read-model operation needed by background workers.
type StatsRefresher interface {
	Refresh(ctx context.Context) (*model.GlobalStats, error)
}
