package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

var _ repository.CategoryRepository = (*PostgresCategoryRepo)(nil)

type PostgresCategoryRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepo(pool *pgxpool.Pool) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{pool: pool}
}

const categoryColumns = `id, name, description, icon, color, session_count, sort_order, created_at`

func (r *PostgresCategoryRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.SessionCount, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, wrapErr("scan category", err)
		}
		out = append(out, &c)
	}
	return out, wrapErr("rows", rows.Err())
}

func (r *PostgresCategoryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Category, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	var c model.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.SessionCount, &c.SortOrder, &c.CreatedAt); err != nil {
		return nil, scanErr(err, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *PostgresCategoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.Category) error {
	const q = `
INSERT INTO categories (id, name, description, icon, color, session_count, sort_order, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  description = EXCLUDED.description,
  icon = EXCLUDED.icon,
  color = EXCLUDED.color,
  sort_order = EXCLUDED.sort_order;`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Name, c.Description, c.Icon, c.Color, c.SessionCount, c.SortOrder, c.CreatedAt)
	return err
}

func (r *PostgresCategoryRepo) IncrementSessionCount(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `UPDATE categories SET session_count = session_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
