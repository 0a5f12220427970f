package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

var _ repository.JournalRepository = (*PostgresJournalRepo)(nil)

type PostgresJournalRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresJournalRepo(pool *pgxpool.Pool) *PostgresJournalRepo {
	return &PostgresJournalRepo{pool: pool}
}

func (r *PostgresJournalRepo) Save(ctx context.Context, tx repository.Tx, e *model.JournalEntry) error {
	const q = `
INSERT INTO journal_entries (id, user_id, session_id, content, mood, created_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6);`
	_, err := execSQL(ctx, r.pool, tx, q, e.ID, e.UserID, e.SessionID, e.Content, e.Mood, e.CreatedAt)
	return err
}

func (r *PostgresJournalRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.JournalEntry, error) {
	const q = `
SELECT id, user_id, COALESCE(session_id, ''), content, mood, created_at
  FROM journal_entries
 WHERE user_id = $1
 ORDER BY created_at DESC, id DESC
 LIMIT $2`
	rows, err := queryRows(ctx, r.pool, tx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.JournalEntry, 0)
	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.SessionID, &e.Content, &e.Mood, &e.CreatedAt); err != nil {
			return nil, wrapErr("scan journal", err)
		}
		out = append(out, &e)
	}
	return out, wrapErr("rows", rows.Err())
}
