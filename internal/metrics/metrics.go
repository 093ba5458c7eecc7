package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CWAAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twweather_cwa_api_calls_total",
			Help: "Total CWA open data API calls",
		},
		[]string{"dataset", "status"},
	)

	CWAAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twweather_cwa_api_latency_seconds",
			Help:    "CWA API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset"},
	)

	WebhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twweather_webhook_requests_total",
			Help: "Total LINE webhook requests by response status",
		},
		[]string{"status"},
	)

	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twweather_replies_total",
			Help: "Total replies sent, by reply kind",
		},
		[]string{"kind"},
	)
)
