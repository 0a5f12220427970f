package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		subscriptionsCreatedTotal,
		billingProviderCallsTotal,
		billingProviderLatency,
		billingEventsTotal,
	)
}

var (
	subscriptionsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_created_total",
			Help: "Billing subscriptions opened, by plan.",
		},
		[]string{"plan"},
	)

	billingProviderCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_provider_calls_total",
			Help: "Calls to the billing provider by operation and result.",
		},
		[]string{"op", "result"}, // result: ok|error
	)

	billingProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_provider_latency_seconds",
			Help:    "Billing provider call latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"op"},
	)

	billingEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_events_total",
			Help: "Webhook events by type and processing result.",
		},
		[]string{"type", "result"}, // applied|ignored|stale|duplicate|invalid
	)
)

func IncSubscriptionCreated(plan string) {
	subscriptionsCreatedTotal.WithLabelValues(norm(plan)).Inc()
}

func ObserveBillingCall(op string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	billingProviderCallsTotal.WithLabelValues(norm(op), result).Inc()
	billingProviderLatency.WithLabelValues(norm(op)).Observe(seconds)
}

func IncBillingEvent(eventType, result string) {
	billingEventsTotal.WithLabelValues(norm(eventType), norm(result)).Inc()
}
