package repository

import (
	"context"
	"time"

	"meditation-platform/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	// Upsert syncs identity fields from the identity provider; stats and billing
	// columns are left untouched on conflict.
	Upsert(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// FindByIDForUpdate locks the row until tx ends; tx must be non-nil.
	FindByIDForUpdate(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByBillingSubscriptionRef(ctx context.Context, tx Tx, ref string) (*model.User, error)
	FindByBillingCustomerRef(ctx context.Context, tx Tx, ref string) (*model.User, error)

	SetBillingLinkage(ctx context.Context, tx Tx, userID, customerRef, subscriptionRef string) error
	// ApplySubscriptionState writes status and expiry, links subscriptionRef (when
	// non-empty) or clears it when tr.ClearSubscription, and stamps billing_synced_at.
	ApplySubscriptionState(ctx context.Context, tx Tx, userID, subscriptionRef string, tr model.BillingTransition, syncedAt time.Time) error
	// TouchBillingSync advances billing_synced_at without touching the status.
	// It never moves the stamp backwards.
	TouchBillingSync(ctx context.Context, tx Tx, userID string, syncedAt time.Time) error

	// AddCompletedMinutes atomically adds minutes and one completed session.
	AddCompletedMinutes(ctx context.Context, tx Tx, userID string, minutes int) (*model.User, error)
	UpdateStreak(ctx context.Context, tx Tx, userID string, streak int, lastCompletedDate string, badges int) error
}
