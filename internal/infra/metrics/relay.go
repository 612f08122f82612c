package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		relayRequestsTotal,
		upstreamLatencyMs,
		relayTokensTotal,
	)
}

var (
	relayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Relay dispatches by kind (relay/restart/sleep/reset/imagine) and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	upstreamLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_ms",
			Help:    "Shapes API call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"kind", "success"},
	)

	relayTokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_tokens_total",
			Help: "Estimated prompt tokens relayed upstream.",
		},
	)
)

func IncRelay(kind, outcome string) {
	relayRequestsTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

func ObserveUpstream(kind string, latencyMs float64, success bool) {
	upstreamLatencyMs.WithLabelValues(norm(kind), strconv.FormatBool(success)).Observe(latencyMs)
}

func AddTokensRelayed(n int) {
	if n > 0 {
		relayTokensTotal.Add(float64(n))
	}
}
