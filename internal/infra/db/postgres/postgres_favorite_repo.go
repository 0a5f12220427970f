package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

var _ repository.FavoriteRepository = (*PostgresFavoriteRepo)(nil)

type PostgresFavoriteRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresFavoriteRepo(pool *pgxpool.Pool) *PostgresFavoriteRepo {
	return &PostgresFavoriteRepo{pool: pool}
}

func (r *PostgresFavoriteRepo) Add(ctx context.Context, tx repository.Tx, userID, sessionID string) error {
	const q = `
INSERT INTO user_favorites (id, user_id, session_id)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, session_id) DO NOTHING;`
	_, err := execSQL(ctx, r.pool, tx, q, uuid.NewString(), userID, sessionID)
	return err
}

func (r *PostgresFavoriteRepo) Remove(ctx context.Context, tx repository.Tx, userID, sessionID string) error {
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM user_favorites WHERE user_id = $1 AND session_id = $2`, userID, sessionID)
	return err
}

func (r *PostgresFavoriteRepo) Exists(ctx context.Context, tx repository.Tx, userID, sessionID string) (bool, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT EXISTS (SELECT 1 FROM user_favorites WHERE user_id = $1 AND session_id = $2)`, userID, sessionID)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, wrapErr("favorite exists", err)
	}
	return ok, nil
}

// ListSessions returns favorited sessions, most recently bookmarked first.
func (r *PostgresFavoriteRepo) ListSessions(ctx context.Context, tx repository.Tx, userID string) ([]*model.Session, error) {
	q := `
SELECT ` + sessionColumns + `
  FROM user_favorites f
  JOIN sessions s ON s.id = f.session_id
 WHERE f.user_id = $1
 ORDER BY f.created_at DESC`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}
