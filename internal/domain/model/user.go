package model

import (
	"strings"
	"time"

	"meditation-platform/internal/domain"

	"github.com/google/uuid"
)

// User is the aggregate shared by the Subscription Manager (billing linkage and
// status) and the Progress Aggregator (cumulative practice stats).
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string

	// Opaque billing-provider identifiers; empty when not linked.
	BillingCustomerRef     string
	BillingSubscriptionRef string
	SubscriptionStatus     SubscriptionStatus
	SubscriptionExpiresAt  *time.Time
	// BillingSyncedAt is the provider creation time of the last applied billing event.
	BillingSyncedAt *time.Time

	CurrentStreak     int
	TotalMinutes      int
	SessionsCompleted int
	BadgesEarned      int
	// LastCompletedDate is the YYYY-MM-DD day of the last completed session.
	LastCompletedDate string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewUser(id, email, firstName, lastName string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &User{
		ID:                 id,
		Email:              email,
		FirstName:          strings.TrimSpace(firstName),
		LastName:           strings.TrimSpace(lastName),
		SubscriptionStatus: SubscriptionStatusFree,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// DisplayName is the name sent to the billing provider.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasSubscription reports whether a billing subscription is linked.
func (u *User) HasSubscription() bool { return u.BillingSubscriptionRef != "" }

// IsPremium reports whether a paid plan is effective at t.
func (u *User) IsPremium(t time.Time) bool {
	if u.SubscriptionStatus == SubscriptionStatusFree || u.SubscriptionStatus == "" {
		return false
	}
	if u.SubscriptionExpiresAt == nil {
		return true
	}
	return t.Before(*u.SubscriptionExpiresAt)
}
