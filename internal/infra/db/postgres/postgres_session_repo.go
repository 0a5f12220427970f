package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*PostgresSessionRepo)(nil)

type PostgresSessionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSessionRepo(pool *pgxpool.Pool) *PostgresSessionRepo {
	return &PostgresSessionRepo{pool: pool}
}

const sessionColumns = `
s.id, s.title, s.description, COALESCE(s.category_id, ''), s.guide_name, s.duration,
s.audio_url, s.image_url, s.is_premium, s.likes, s.plays, s.is_featured, s.tags,
s.created_at, s.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var s model.Session
	if err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.CategoryID, &s.GuideName, &s.Duration,
		&s.AudioURL, &s.ImageURL, &s.IsPremium, &s.Likes, &s.Plays, &s.IsFeatured, &s.Tags,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return &s, nil
}

func collectSessions(rows pgx.Rows) ([]*model.Session, error) {
	defer rows.Close()
	out := make([]*model.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrapErr("scan session", err)
		}
		out = append(out, s)
	}
	return out, wrapErr("rows", rows.Err())
}

func (r *PostgresSessionRepo) List(ctx context.Context, tx repository.Tx, f repository.SessionFilter) ([]*model.Session, error) {
	order := "s.created_at DESC"
	if f.ByPlays {
		order = "s.plays DESC, s.created_at DESC"
	}
	q := fmt.Sprintf(`
SELECT %s FROM sessions s
 WHERE ($1 = '' OR s.category_id = $1)
 ORDER BY %s
 LIMIT $2 OFFSET $3`, sessionColumns, order)
	rows, err := queryRows(ctx, r.pool, tx, q, f.CategoryID, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *PostgresSessionRepo) ListFeatured(ctx context.Context, tx repository.Tx, limit int) ([]*model.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions s WHERE s.is_featured ORDER BY s.created_at DESC LIMIT $1`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (r *PostgresSessionRepo) ListPopular(ctx context.Context, tx repository.Tx, limit int) ([]*model.Session, error) {
	return r.List(ctx, tx, repository.SessionFilter{Limit: limit, ByPlays: true})
}

func (r *PostgresSessionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Session, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+sessionColumns+` FROM sessions s WHERE s.id = $1`, id)
	if err != nil {
		return nil, err
	}
	s, err := scanSession(row)
	if err != nil {
		return nil, scanErr(err, domain.ErrNotFound)
	}
	return s, nil
}

func (r *PostgresSessionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Session) error {
	const q = `
INSERT INTO sessions (
  id, title, description, category_id, guide_name, duration, audio_url, image_url,
  is_premium, likes, plays, is_featured, tags, created_at, updated_at
) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  description = EXCLUDED.description,
  category_id = EXCLUDED.category_id,
  guide_name = EXCLUDED.guide_name,
  duration = EXCLUDED.duration,
  audio_url = EXCLUDED.audio_url,
  image_url = EXCLUDED.image_url,
  is_premium = EXCLUDED.is_premium,
  is_featured = EXCLUDED.is_featured,
  tags = EXCLUDED.tags,
  updated_at = EXCLUDED.updated_at;`
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.Title, s.Description, s.CategoryID, s.GuideName, s.Duration, s.AudioURL, s.ImageURL,
		s.IsPremium, s.Likes, s.Plays, s.IsFeatured, tags, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *PostgresSessionRepo) IncrementPlays(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `UPDATE sessions SET plays = plays + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
