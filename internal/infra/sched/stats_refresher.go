package sched

import (
	"context"
	"errors"
	"time"

	"meditation-platform/internal/domain/ports/usecase"
	"meditation-platform/internal/infra/logging"
	"meditation-platform/internal/infra/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// StatsLockKey serialises refreshes across replicas.
const StatsLockKey = "lock:stats:refresh"

// Locker is satisfied by redis.RedisLocker.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

// StatsRefresher recomputes the global stats read model on a cron schedule.
type StatsRefresher struct {
	schedule string
	stats    usecase.StatsRefresher
	locker   Locker // optional
	timeout  time.Duration
	log      *zerolog.Logger
}

func NewStatsRefresher(schedule string, stats usecase.StatsRefresher, locker Locker, timeout time.Duration, logger *zerolog.Logger) *StatsRefresher {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &StatsRefresher{
		schedule: schedule,
		stats:    stats,
		locker:   locker,
		timeout:  timeout,
		log:      logging.Component(logger, "StatsRefresher"),
	}
}

// Run refreshes once, then on every schedule tick until ctx is done.
func (r *StatsRefresher) Run(ctx context.Context) error {
	sch, err := cron.ParseStandard(r.schedule)
	if err != nil {
		return err
	}

	c := cron.New()
	c.Schedule(sch, cron.FuncJob(func() { r.RunOnce(ctx) }))

	r.log.Info().Str("schedule", r.schedule).Msg("Starting stats refresher")
	r.RunOnce(ctx)
	c.Start()

	<-ctx.Done()
	r.log.Info().Msg("Stopping stats refresher")
	stopped := c.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(5 * time.Second):
		r.log.Warn().Msg("stats refresh still running at shutdown")
	}
	return ctx.Err()
}

// RunOnce performs a single refresh and reports its outcome: "ok", "skipped" or "error".
func (r *StatsRefresher) RunOnce(parent context.Context) string {
	if parent.Err() != nil {
		return "skipped"
	}
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	if r.locker != nil {
		token, err := r.locker.TryLock(ctx, StatsLockKey, r.timeout)
		if err != nil {
			// another replica is on it, or redis is down; either way the next tick retries
			r.log.Debug().Err(err).Msg("stats refresh skipped")
			metrics.IncStatsRefresh("skipped")
			return "skipped"
		}
		defer func() {
			if err := r.locker.Unlock(context.WithoutCancel(ctx), StatsLockKey, token); err != nil {
				r.log.Warn().Err(err).Msg("stats lock release failed")
			}
		}()
	}

	gs, err := r.stats.Refresh(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.log.Error().Err(err).Msg("stats refresh error")
		}
		metrics.IncStatsRefresh("error")
		return "error"
	}
	metrics.SetGlobalStats(gs.ActiveUsers, gs.TotalSessions, gs.TotalMinutes, gs.TotalMinutesToday, gs.TotalMembers)
	metrics.IncStatsRefresh("ok")
	return "ok"
}
