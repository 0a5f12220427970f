package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

var _ repository.StatsRepository = (*PostgresStatsRepo)(nil)

type PostgresStatsRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresStatsRepo(pool *pgxpool.Pool) *PostgresStatsRepo {
	return &PostgresStatsRepo{pool: pool}
}

// Aggregate counts a user as active when they have daily progress on or after activeSinceDay.
func (r *PostgresStatsRepo) Aggregate(ctx context.Context, tx repository.Tx, activeSinceDay, today string) (*model.GlobalStats, error) {
	const q = `
SELECT
  (SELECT COUNT(DISTINCT user_id) FROM daily_progress WHERE date >= $1::date),
  (SELECT COUNT(*) FROM sessions),
  (SELECT COALESCE(SUM(total_minutes), 0)::bigint FROM users),
  (SELECT COALESCE(SUM(minutes_meditated), 0)::bigint FROM daily_progress WHERE date = $2::date),
  (SELECT COUNT(*) FROM users);`
	row, err := pickRow(ctx, r.pool, tx, q, activeSinceDay, today)
	if err != nil {
		return nil, err
	}
	var s model.GlobalStats
	if err := row.Scan(&s.ActiveUsers, &s.TotalSessions, &s.TotalMinutes, &s.TotalMinutesToday, &s.TotalMembers); err != nil {
		return nil, wrapErr("aggregate stats", err)
	}
	return &s, nil
}
