package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/repository"
)

var _ repository.BillingEventRepository = (*PostgresBillingEventRepo)(nil)

// PostgresBillingEventRepo is the webhook dedup ledger keyed by provider event id.
type PostgresBillingEventRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresBillingEventRepo(pool *pgxpool.Pool) *PostgresBillingEventRepo {
	return &PostgresBillingEventRepo{pool: pool}
}

func (r *PostgresBillingEventRepo) Insert(ctx context.Context, tx repository.Tx, ev *model.BillingEvent) (bool, error) {
	const q = `
INSERT INTO billing_events (id, type, provider_created_at, customer_ref, subscription_ref, received_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING;`
	received := ev.ReceivedAt
	if received.IsZero() {
		received = time.Now().UTC()
	}
	tag, err := execSQL(ctx, r.pool, tx, q, ev.ID, ev.Type, ev.CreatedAt.UTC(), ev.CustomerRef, ev.SubscriptionRef, received)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresBillingEventRepo) SetResult(ctx context.Context, tx repository.Tx, id string, result model.BillingEventResult, userID string) error {
	tag, err := execSQL(ctx, r.pool, tx,
		`UPDATE billing_events SET result = $2, user_id = $3 WHERE id = $1`, id, string(result), userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
