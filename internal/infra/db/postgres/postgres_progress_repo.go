package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

var (
	_ repository.SessionProgressRepository = (*PostgresSessionProgressRepo)(nil)
	_ repository.DailyProgressRepository   = (*PostgresDailyProgressRepo)(nil)
)

// -----------------------------
// Per-session progress
// -----------------------------

type PostgresSessionProgressRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSessionProgressRepo(pool *pgxpool.Pool) *PostgresSessionProgressRepo {
	return &PostgresSessionProgressRepo{pool: pool}
}

const progressColumns = `id, user_id, session_id, progress_minutes, is_completed, last_played_at, created_at`

func (r *PostgresSessionProgressRepo) Upsert(ctx context.Context, tx repository.Tx, p *model.UserSessionProgress) (*model.UserSessionProgress, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	q := `
INSERT INTO user_session_progress (id, user_id, session_id, progress_minutes, is_completed, last_played_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, session_id) DO UPDATE SET
  progress_minutes = EXCLUDED.progress_minutes,
  is_completed = EXCLUDED.is_completed,
  last_played_at = EXCLUDED.last_played_at
RETURNING ` + progressColumns
	row, err := pickRow(ctx, r.pool, tx, q, p.ID, p.UserID, p.SessionID, p.ProgressMinutes, p.IsCompleted, p.LastPlayedAt, p.CreatedAt)
	if err != nil {
		return nil, err
	}
	var out model.UserSessionProgress
	if err := row.Scan(&out.ID, &out.UserID, &out.SessionID, &out.ProgressMinutes, &out.IsCompleted, &out.LastPlayedAt, &out.CreatedAt); err != nil {
		return nil, wrapErr("upsert progress", err)
	}
	return &out, nil
}

func (r *PostgresSessionProgressRepo) Find(ctx context.Context, tx repository.Tx, userID, sessionID string) (*model.UserSessionProgress, error) {
	q := `SELECT ` + progressColumns + ` FROM user_session_progress WHERE user_id = $1 AND session_id = $2`
	row, err := pickRow(ctx, r.pool, tx, q, userID, sessionID)
	if err != nil {
		return nil, err
	}
	var out model.UserSessionProgress
	if err := row.Scan(&out.ID, &out.UserID, &out.SessionID, &out.ProgressMinutes, &out.IsCompleted, &out.LastPlayedAt, &out.CreatedAt); err != nil {
		return nil, scanErr(err, domain.ErrNotFound)
	}
	return &out, nil
}

// -----------------------------
// Daily rollup
// -----------------------------

type PostgresDailyProgressRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresDailyProgressRepo(pool *pgxpool.Pool) *PostgresDailyProgressRepo {
	return &PostgresDailyProgressRepo{pool: pool}
}

const dailyColumns = `id, user_id, date::text, minutes_meditated, sessions_completed, created_at`

func (r *PostgresDailyProgressRepo) Add(ctx context.Context, tx repository.Tx, userID, date string, minutes, sessions int) (*model.DailyProgress, error) {
	q := `
INSERT INTO daily_progress (id, user_id, date, minutes_meditated, sessions_completed)
VALUES ($1, $2, $3::date, $4, $5)
ON CONFLICT (user_id, date) DO UPDATE SET
  minutes_meditated = daily_progress.minutes_meditated + EXCLUDED.minutes_meditated,
  sessions_completed = daily_progress.sessions_completed + EXCLUDED.sessions_completed
RETURNING ` + dailyColumns
	row, err := pickRow(ctx, r.pool, tx, q, uuid.NewString(), userID, date, minutes, sessions)
	if err != nil {
		return nil, err
	}
	var d model.DailyProgress
	if err := row.Scan(&d.ID, &d.UserID, &d.Date, &d.MinutesMeditated, &d.SessionsCompleted, &d.CreatedAt); err != nil {
		return nil, wrapErr("add daily progress", err)
	}
	return &d, nil
}

func (r *PostgresDailyProgressRepo) Find(ctx context.Context, tx repository.Tx, userID, date string) (*model.DailyProgress, error) {
	q := `SELECT ` + dailyColumns + ` FROM daily_progress WHERE user_id = $1 AND date = $2::date`
	row, err := pickRow(ctx, r.pool, tx, q, userID, date)
	if err != nil {
		return nil, err
	}
	var d model.DailyProgress
	if err := row.Scan(&d.ID, &d.UserID, &d.Date, &d.MinutesMeditated, &d.SessionsCompleted, &d.CreatedAt); err != nil {
		return nil, scanErr(err, domain.ErrNotFound)
	}
	return &d, nil
}
