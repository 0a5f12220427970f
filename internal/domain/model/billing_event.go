package model

import "time"

// Billing event types consumed from the provider webhook.
const (
	EventInvoicePaymentSucceeded = "invoice.payment_succeeded"
	EventInvoicePaid             = "invoice.paid"
	EventInvoicePaymentFailed    = "invoice.payment_failed"
	EventSubscriptionCreated     = "customer.subscription.created"
	EventSubscriptionUpdated     = "customer.subscription.updated"
	EventSubscriptionDeleted     = "customer.subscription.deleted"
)

type BillingEventResult string

const (
	BillingEventApplied   BillingEventResult = "applied"
	BillingEventIgnored   BillingEventResult = "ignored"
	BillingEventStale     BillingEventResult = "stale"
	BillingEventDuplicate BillingEventResult = "duplicate"
)

// BillingEvent is a provider lifecycle notification, already verified and decoded.
type BillingEvent struct {
	ID              string
	Type            string
	CreatedAt       time.Time
	CustomerRef     string
	SubscriptionRef string
	// Subscription is set when the payload itself is a subscription object.
	Subscription *BillingSubscription

	UserID     string
	Result     BillingEventResult
	ReceivedAt time.Time
}

// IsInvoiceEvent reports whether the payload is an invoice.
func (e *BillingEvent) IsInvoiceEvent() bool {
	switch e.Type {
	case EventInvoicePaymentSucceeded, EventInvoicePaid, EventInvoicePaymentFailed:
		return true
	}
	return false
}

// IsSupported reports whether the event can change local subscription state.
func (e *BillingEvent) IsSupported() bool {
	switch e.Type {
	case EventInvoicePaymentSucceeded, EventInvoicePaid, EventInvoicePaymentFailed,
		EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		return true
	}
	return false
}
