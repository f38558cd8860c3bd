package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kiosk",
		Name:      "checkins_total",
		Help:      "Total number of recorded check-ins",
	})

	CheckOuts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kiosk",
		Name:      "checkouts_total",
		Help:      "Total number of recorded check-outs",
	})

	CheckOutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kiosk",
		Name:      "checkout_failures_total",
		Help:      "Check-out attempts with no matching open visit",
	})

	MetricsComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kiosk",
		Name:      "metrics_compute_duration_seconds",
		Help:      "Duration of dashboard snapshot computation",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	ActiveVisitors = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "kiosk",
		Name:      "active_visitors",
		Help:      "Visitors with an open visit in the last 24 hours, per last snapshot",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kiosk",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "kiosk",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})

	SummariesIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kiosk",
		Name:      "summaries_indexed_total",
		Help:      "Visitor summary documents written by the indexer",
	})
)
