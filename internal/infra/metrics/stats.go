package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(globalStats, statsRefreshTotal) }

var (
	globalStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "global_stats",
			Help: "Last refreshed global read model figures.",
		},
		[]string{"field"}, // active_users, total_sessions, total_minutes, total_minutes_today, total_members
	)

	statsRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_refresh_total",
			Help: "Global stats refresh runs by result.",
		},
		[]string{"result"}, // ok|error|skipped
	)
)

func SetGlobalStats(activeUsers, totalSessions int, totalMinutes, totalMinutesToday int64, totalMembers int) {
	globalStats.WithLabelValues("active_users").Set(float64(activeUsers))
	globalStats.WithLabelValues("total_sessions").Set(float64(totalSessions))
	globalStats.WithLabelValues("total_minutes").Set(float64(totalMinutes))
	globalStats.WithLabelValues("total_minutes_today").Set(float64(totalMinutesToday))
	globalStats.WithLabelValues("total_members").Set(float64(totalMembers))
}

func IncStatsRefresh(result string) {
	statsRefreshTotal.WithLabelValues(norm(result)).Inc()
}
