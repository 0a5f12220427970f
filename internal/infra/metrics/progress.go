package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(sessionPlaysTotal, progressMinutesTotal)
}

var (
	sessionPlaysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_plays_total",
			Help: "Recorded session plays, labeled by completion.",
		},
		[]string{"completed"},
	)

	progressMinutesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_minutes_total",
			Help: "Minutes credited to users by completed plays.",
		},
	)
)

func IncSessionPlay(completed bool, minutes int) {
	sessionPlaysTotal.WithLabelValues(strconv.FormatBool(completed)).Inc()
	if completed && minutes > 0 {
		progressMinutesTotal.Add(float64(minutes))
	}
}
