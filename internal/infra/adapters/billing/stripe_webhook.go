package billing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/adapter"
)

var _ adapter.WebhookParser = (*StripeWebhookParser)(nil)

// StripeWebhookParser verifies the Stripe-Signature header and decodes the
// payload object into a provider-neutral BillingEvent.
type StripeWebhookParser struct {
	secret    string
	tolerance time.Duration
}

func NewStripeWebhookParser(secret string) *StripeWebhookParser {
	return &StripeWebhookParser{secret: secret, tolerance: webhook.DefaultTolerance}
}

func (p *StripeWebhookParser) ParseEvent(payload []byte, signature string) (*model.BillingEvent, error) {
	if p.secret == "" || signature == "" {
		return nil, domain.ErrInvalidSignature
	}
	evt, err := webhook.ConstructEventWithOptions(payload, signature, p.secret, webhook.ConstructEventOptions{
		Tolerance:                p.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}

	ev := &model.BillingEvent{
		ID:         evt.ID,
		Type:       string(evt.Type),
		CreatedAt:  time.Unix(evt.Created, 0).UTC(),
		ReceivedAt: time.Now().UTC(),
	}
	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return ev, nil
	}

	switch {
	case ev.IsInvoiceEvent():
		var inv stripe.Invoice
		if err := json.Unmarshal(evt.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("%w: decode invoice: %w", domain.ErrInvalidArgument, err)
		}
		if inv.Customer != nil {
			ev.CustomerRef = inv.Customer.ID
		}
		if inv.Subscription != nil {
			ev.SubscriptionRef = inv.Subscription.ID
		}
	case ev.IsSupported():
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: decode subscription: %w", domain.ErrInvalidArgument, err)
		}
		ev.Subscription = toBillingSubscription(&sub)
		ev.SubscriptionRef = sub.ID
		ev.CustomerRef = ev.Subscription.CustomerRef
	}
	return ev, nil
}
