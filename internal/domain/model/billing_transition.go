package model

import "time"

// BillingTransition is the local update implied by one billing event.
type BillingTransition struct {
	Changed           bool
	Status            SubscriptionStatus
	ExpiresAt         *time.Time
	ClearSubscription bool
}

// NextSubscriptionState maps a provider event and the provider's subscription
// state onto the local User status.
//
//	active/trialing                 -> premium_<plan>, expires at period end
//	past_due                        -> premium kept, expires at period end
//	canceled/unpaid/incomplete_exp. -> free, expires now, subscription unlinked
//	incomplete, payment_failed      -> unchanged
func NextSubscriptionState(eventType string, sub *BillingSubscription, plan PlanType, now time.Time) BillingTransition {
	if sub == nil || eventType == EventInvoicePaymentFailed {
		return BillingTransition{}
	}
	if eventType == EventSubscriptionDeleted || sub.Status.IsTerminal() {
		ended := now
		if sub.EndedAt != nil {
			ended = *sub.EndedAt
		}
		return BillingTransition{
			Changed:           true,
			Status:            SubscriptionStatusFree,
			ExpiresAt:         &ended,
			ClearSubscription: true,
		}
	}
	switch sub.Status {
	case BillingStatusActive, BillingStatusTrialing, BillingStatusPastDue:
		return BillingTransition{
			Changed:   true,
			Status:    plan.Status(),
			ExpiresAt: sub.CurrentPeriodEnd,
		}
	}
	return BillingTransition{}
}
