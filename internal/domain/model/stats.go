package model

import "time"

// GlobalStats is the coarse community read model shown on the dashboard.
type GlobalStats struct {
	ActiveUsers       int       `json:"activeUsers"`
	TotalSessions     int       `json:"totalSessions"`
	TotalMinutes      int64     `json:"totalMinutes"`
	TotalMinutesToday int64     `json:"totalMinutesToday"`
	TotalMembers      int       `json:"totalMembers"`
	RefreshedAt       time.Time `json:"refreshedAt"`
}
