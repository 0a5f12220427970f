package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `
id, COALESCE(email, ''), first_name, last_name, profile_image_url,
COALESCE(billing_customer_ref, ''), COALESCE(billing_subscription_ref, ''),
subscription_status, subscription_expires_at, billing_synced_at,
current_streak, total_minutes, sessions_completed, badges_earned,
COALESCE(last_completed_date::text, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var status string
	if err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&u.BillingCustomerRef, &u.BillingSubscriptionRef,
		&status, &u.SubscriptionExpiresAt, &u.BillingSyncedAt,
		&u.CurrentStreak, &u.TotalMinutes, &u.SessionsCompleted, &u.BadgesEarned,
		&u.LastCompletedDate, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, scanErr(err, domain.ErrUserNotFound)
	}
	u.SubscriptionStatus = model.SubscriptionStatus(status)
	return &u, nil
}

func (r *PostgresUserRepo) Upsert(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $6)
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  profile_image_url = EXCLUDED.profile_image_url,
  updated_at = EXCLUDED.updated_at;`
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL, u.CreatedAt)
	return err
}

func (r *PostgresUserRepo) findOne(ctx context.Context, tx repository.Tx, where string, arg interface{}) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return r.findOne(ctx, tx, `id = $1`, id)
}

func (r *PostgresUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if tx == nil {
		return nil, domain.ErrInvalidExecContext
	}
	return r.findOne(ctx, tx, forUpdate(`id = $1`, tx), id)
}

func (r *PostgresUserRepo) FindByBillingSubscriptionRef(ctx context.Context, tx repository.Tx, ref string) (*model.User, error) {
	if ref == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, tx, forUpdate(`billing_subscription_ref = $1`, tx), ref)
}

func (r *PostgresUserRepo) FindByBillingCustomerRef(ctx context.Context, tx repository.Tx, ref string) (*model.User, error) {
	if ref == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, tx, forUpdate(`billing_customer_ref = $1`, tx), ref)
}

func (r *PostgresUserRepo) SetBillingLinkage(ctx context.Context, tx repository.Tx, userID, customerRef, subscriptionRef string) error {
	const q = `
UPDATE users SET
  billing_customer_ref = NULLIF($2, ''),
  billing_subscription_ref = NULLIF($3, ''),
  updated_at = now()
WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, customerRef, subscriptionRef)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepo) ApplySubscriptionState(ctx context.Context, tx repository.Tx, userID, subscriptionRef string, tr model.BillingTransition, syncedAt time.Time) error {
	const q = `
UPDATE users SET
  subscription_status = $2,
  subscription_expires_at = $3,
  billing_subscription_ref = CASE
    WHEN $5::boolean THEN NULL
    WHEN $4::text <> '' THEN $4::text
    ELSE billing_subscription_ref
  END,
  billing_synced_at = $6,
  updated_at = now()
WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, string(tr.Status), tr.ExpiresAt, subscriptionRef, tr.ClearSubscription, syncedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepo) TouchBillingSync(ctx context.Context, tx repository.Tx, userID string, syncedAt time.Time) error {
	const q = `
UPDATE users SET
  billing_synced_at = GREATEST(COALESCE(billing_synced_at, $2), $2),
  updated_at = now()
WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, syncedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepo) AddCompletedMinutes(ctx context.Context, tx repository.Tx, userID string, minutes int) (*model.User, error) {
	q := `
UPDATE users SET
  total_minutes = total_minutes + $2,
  sessions_completed = sessions_completed + 1,
  updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	row, err := pickRow(ctx, r.pool, tx, q, userID, minutes)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) UpdateStreak(ctx context.Context, tx repository.Tx, userID string, streak int, lastCompletedDate string, badges int) error {
	const q = `
UPDATE users SET
  current_streak = $2,
  last_completed_date = NULLIF($3, '')::date,
  badges_earned = $4,
  updated_at = now()
WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, streak, lastCompletedDate, badges)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
