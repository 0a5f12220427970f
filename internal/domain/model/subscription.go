package model

import (
	"strings"
	"time"

	"meditation-platform/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusFree           SubscriptionStatus = "free"
	SubscriptionStatusPremiumMonthly SubscriptionStatus = "premium_monthly"
	SubscriptionStatusPremiumAnnual  SubscriptionStatus = "premium_annual"
)

// PlanType is the premium billing tier a user can buy.
type PlanType string

const (
	PlanMonthly PlanType = "monthly"
	PlanAnnual  PlanType = "annual"
)

// ParsePlanType normalizes user input; empty means monthly.
func ParsePlanType(s string) (PlanType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PlanMonthly):
		return PlanMonthly, nil
	case string(PlanAnnual):
		return PlanAnnual, nil
	default:
		return "", domain.ErrInvalidArgument
	}
}

// Status is the local subscription status granted by a paid plan.
func (p PlanType) Status() SubscriptionStatus {
	if p == PlanAnnual {
		return SubscriptionStatusPremiumAnnual
	}
	return SubscriptionStatusPremiumMonthly
}

// PlanFromInterval maps a recurring billing interval to a plan.
func PlanFromInterval(interval string) PlanType {
	if strings.EqualFold(interval, "year") {
		return PlanAnnual
	}
	return PlanMonthly
}

// BillingStatus is the provider-side subscription state.
type BillingStatus string

const (
	BillingStatusIncomplete        BillingStatus = "incomplete"
	BillingStatusIncompleteExpired BillingStatus = "incomplete_expired"
	BillingStatusTrialing          BillingStatus = "trialing"
	BillingStatusActive            BillingStatus = "active"
	BillingStatusPastDue           BillingStatus = "past_due"
	BillingStatusCanceled          BillingStatus = "canceled"
	BillingStatusUnpaid            BillingStatus = "unpaid"
	BillingStatusPaused            BillingStatus = "paused"
)

// IsTerminal reports whether the subscription can no longer be paid.
func (s BillingStatus) IsTerminal() bool {
	switch s {
	case BillingStatusCanceled, BillingStatusIncompleteExpired, BillingStatusUnpaid:
		return true
	}
	return false
}

// CanBeReplaced reports whether a new subscription may be opened in place of
// this one. An unpaid subscription stays payable through its open invoice.
func (s BillingStatus) CanBeReplaced() bool {
	return s == BillingStatusCanceled || s == BillingStatusIncompleteExpired
}

// IsEntitled reports whether the provider considers the subscription paid up.
func (s BillingStatus) IsEntitled() bool {
	return s == BillingStatusActive || s == BillingStatusTrialing
}

// BillingSubscription is the provider's view of one subscription.
type BillingSubscription struct {
	Ref              string
	CustomerRef      string
	Status           BillingStatus
	PriceRef         string
	Interval         string // "month" | "year"
	CurrentPeriodEnd *time.Time
	EndedAt          *time.Time
	// PaymentSecret is the client-confirmable secret of the latest invoice, if any.
	PaymentSecret string
}

// SubscriptionPayment is what the client needs to confirm a charge.
type SubscriptionPayment struct {
	SubscriptionRef string        `json:"subscriptionId"`
	ClientSecret    string        `json:"clientSecret"`
	Status          BillingStatus `json:"status"`
	Created         bool          `json:"created"`
}

// SubscriptionState is the locally known entitlement of a user.
type SubscriptionState struct {
	Status    SubscriptionStatus `json:"subscriptionStatus"`
	ExpiresAt *time.Time         `json:"subscriptionExpiresAt,omitempty"`
	IsPremium bool               `json:"isPremium"`
	Linked    bool               `json:"hasBillingSubscription"`
}
