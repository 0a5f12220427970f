package usecase

import (
	"context"
	"sync"
	"time"

	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
	"meditation-platform/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase serves the coarse global read model shown on dashboards.
type StatsUseCase interface {
	// Refresh recomputes the figures and publishes them to the cache.
	Refresh(ctx context.Context) (*model.GlobalStats, error)
	// GetGlobalStats reads cache, then the last in-process copy, then computes on demand.
	GetGlobalStats(ctx context.Context) (*model.GlobalStats, error)
}

type statsUC struct {
	stats        repository.StatsRepository
	cache        repository.StatsCache // optional
	ttl          time.Duration
	activeWindow time.Duration
	loc          *time.Location

	mu   sync.RWMutex
	last *model.GlobalStats

	log *zerolog.Logger
	now func() time.Time
}

func NewStatsUseCase(stats repository.StatsRepository, cache repository.StatsCache, refreshInterval, activeWindow time.Duration, loc *time.Location, logger *zerolog.Logger) *statsUC {
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Minute
	}
	if activeWindow <= 0 {
		activeWindow = 7 * 24 * time.Hour
	}
	if loc == nil {
		loc = time.UTC
	}
	return &statsUC{
		stats:        stats,
		cache:        cache,
		ttl:          2 * refreshInterval,
		activeWindow: activeWindow,
		loc:          loc,
		log:          logging.Component(logger, "stats_uc"),
		now:          time.Now,
	}
}

func (s *statsUC) Refresh(ctx context.Context) (*model.GlobalStats, error) {
	defer logging.TraceDuration(s.log, "StatsUC.Refresh")()

	now := s.now().UTC()
	// Both bounds are local days so the window matches the daily_progress keys.
	since := model.DayKey(now.Add(-s.activeWindow), s.loc)
	gs, err := s.stats.Aggregate(ctx, repository.NoTX, since, model.DayKey(now, s.loc))
	if err != nil {
		return nil, err
	}
	gs.RefreshedAt = now

	s.mu.Lock()
	s.last = gs
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, gs, s.ttl); err != nil {
			// in-process copy still serves this replica
			s.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	s.log.Info().
		Int("active_users", gs.ActiveUsers).
		Int("total_sessions", gs.TotalSessions).
		Int64("total_minutes", gs.TotalMinutes).
		Int("total_members", gs.TotalMembers).
		Msg("global stats refreshed")
	return gs, nil
}

func (s *statsUC) GetGlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	if s.cache != nil {
		gs, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("stats cache read failed")
		} else if gs != nil {
			return gs, nil
		}
	}

	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last != nil {
		cp := *last
		return &cp, nil
	}
	return s.Refresh(ctx)
}
