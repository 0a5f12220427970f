package model

import (
	"time"

	"meditation-platform/internal/domain"
)

// DateLayout is the calendar-day key used by daily progress and streaks.
const DateLayout = "2006-01-02"

// UserSessionProgress is unique per (user, session) and updated in place.
type UserSessionProgress struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	SessionID       string    `json:"sessionId"`
	ProgressMinutes int       `json:"progressMinutes"`
	IsCompleted     bool      `json:"isCompleted"`
	LastPlayedAt    time.Time `json:"lastPlayedAt"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UserFavorite marks a bookmarked session; existence is the whole state.
type UserFavorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyProgress is unique per (user, date) with additive counters.
type DailyProgress struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Date              string    `json:"date"`
	MinutesMeditated  int       `json:"minutesMeditated"`
	SessionsCompleted int       `json:"sessionsCompleted"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UserStats is the progress slice of the User aggregate.
type UserStats struct {
	CurrentStreak     int    `json:"currentStreak"`
	TotalMinutes      int    `json:"totalMinutes"`
	SessionsCompleted int    `json:"sessionsCompleted"`
	BadgesEarned      int    `json:"badgesEarned"`
	LastCompletedDate string `json:"lastCompletedDate,omitempty"`
}

func (u *User) Stats() UserStats {
	return UserStats{
		CurrentStreak:     u.CurrentStreak,
		TotalMinutes:      u.TotalMinutes,
		SessionsCompleted: u.SessionsCompleted,
		BadgesEarned:      u.BadgesEarned,
		LastCompletedDate: u.LastCompletedDate,
	}
}

// DayKey formats t as a calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ParseDay validates a YYYY-MM-DD key.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return time.Time{}, domain.ErrInvalidArgument
	}
	return t, nil
}

func previousDay(day string) string {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// NextStreak returns the streak after a completed session on today.
// Completing again the same day keeps the streak; completing the day after
// the last completed day extends it; any gap restarts it at 1.
func NextStreak(current int, lastCompleted, today string) int {
	switch {
	case lastCompleted == today:
		if current < 1 {
			return 1
		}
		return current
	case lastCompleted != "" && lastCompleted > today:
		// recorded in an earlier time zone than the last completion
		if current < 1 {
			return 1
		}
		return current
	case lastCompleted != "" && lastCompleted == previousDay(today):
		return current + 1
	default:
		return 1
	}
}

// EffectiveStreak is the streak as seen on today: a streak whose last
// completed day is older than yesterday has lapsed.
func EffectiveStreak(current int, lastCompleted, today string) int {
	if lastCompleted == "" {
		return 0
	}
	if lastCompleted >= today || lastCompleted == previousDay(today) {
		return current
	}
	return 0
}

type badgeRule struct {
	sessions int
	streak   int
	minutes  int
}

var badgeRules = []badgeRule{
	{sessions: 1},
	{sessions: 10},
	{sessions: 50},
	{sessions: 100},
	{streak: 3},
	{streak: 7},
	{streak: 30},
	{minutes: 1000},
}

// BadgesFor counts milestones reached; the count never drops below current.
func BadgesFor(current, sessions, streak, minutes int) int {
	n := 0
	for _, r := range badgeRules {
		switch {
		case r.sessions > 0 && sessions >= r.sessions,
			r.streak > 0 && streak >= r.streak,
			r.minutes > 0 && minutes >= r.minutes:
			n++
		}
	}
	if n < current {
		return current
	}
	return n
}
