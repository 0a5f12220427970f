package repository

import (
	"context"

	"meditation-platform/internal/domain/model"
)

type BillingEventRepository interface {
	// Insert records the event id; inserted is false when the id was already seen.
	Insert(ctx context.Context, tx Tx, ev *model.BillingEvent) (inserted bool, err error)
	SetResult(ctx context.Context, tx Tx, id string, result model.BillingEventResult, userID string) error
}
