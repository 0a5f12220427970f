package adapter

import (
	"context"

	"meditation-platform/internal/domain/model"
)

// CustomerRequest describes the payer sent to the billing provider.
type CustomerRequest struct {
	UserID         string
	Email          string
	Name           string
	IdempotencyKey string
}

// SubscriptionRequest opens a subscription in an incomplete payment state.
type SubscriptionRequest struct {
	CustomerRef    string
	PriceRef       string
	IdempotencyKey string
	Metadata       map[string]string
}

// BillingProvider is the hex port for the external subscription processor.
// Implementations never retry; failures wrap domain.ErrBillingProvider.
type BillingProvider interface {
	Name() string

	CreateCustomer(ctx context.Context, req CustomerRequest) (customerRef string, err error)
	CreateSubscription(ctx context.Context, req SubscriptionRequest) (*model.BillingSubscription, error)
	// GetSubscription returns current status and the latest invoice payment secret.
	GetSubscription(ctx context.Context, subscriptionRef string) (*model.BillingSubscription, error)
}

// WebhookParser verifies and decodes inbound provider notifications.
// Verification failures wrap domain.ErrInvalidSignature.
type WebhookParser interface {
	ParseEvent(payload []byte, signature string) (*model.BillingEvent, error)
}
