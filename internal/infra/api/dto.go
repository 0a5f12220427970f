package api

import (
	"time"

	"meditation-platform/internal/domain/model"
)

type userResponse struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email,omitempty"`
	FirstName             string     `json:"firstName,omitempty"`
	LastName              string     `json:"lastName,omitempty"`
	ProfileImageURL       string     `json:"profileImageUrl,omitempty"`
	SubscriptionStatus    string     `json:"subscriptionStatus"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`
	IsPremium             bool       `json:"isPremium"`
	CurrentStreak         int        `json:"currentStreak"`
	TotalMinutes          int        `json:"totalMinutes"`
	SessionsCompleted     int        `json:"sessionsCompleted"`
	BadgesEarned          int        `json:"badgesEarned"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// toUserResponse reports the streak as seen today: a lapsed streak reads 0.
func toUserResponse(u *model.User, now time.Time, loc *time.Location) userResponse {
	status := u.SubscriptionStatus
	if status == "" {
		status = model.SubscriptionStatusFree
	}
	return userResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		ProfileImageURL:       u.ProfileImageURL,
		SubscriptionStatus:    string(status),
		SubscriptionExpiresAt: u.SubscriptionExpiresAt,
		IsPremium:             u.IsPremium(now),
		CurrentStreak:         model.EffectiveStreak(u.CurrentStreak, u.LastCompletedDate, model.DayKey(now, loc)),
		TotalMinutes:          u.TotalMinutes,
		SessionsCompleted:     u.SessionsCompleted,
		BadgesEarned:          u.BadgesEarned,
		CreatedAt:             u.CreatedAt,
	}
}

type playRequest struct {
	ProgressMinutes *int   `json:"progressMinutes"`
	IsCompleted     bool   `json:"isCompleted"`
	TimeZone        string `json:"timeZone"`
}

type subscriptionRequest struct {
	PlanType string `json:"planType"`
}

type journalRequest struct {
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
	Mood      string `json:"mood"`
}

type favoriteResponse struct {
	SessionID  string `json:"sessionId"`
	IsFavorite bool   `json:"isFavorite"`
}

type webhookResponse struct {
	Received bool   `json:"received"`
	Result   string `json:"result,omitempty"`
}
