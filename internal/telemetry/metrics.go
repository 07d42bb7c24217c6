// Package telemetry provides observability primitives for the Foyer gateway.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the gateway.
type Metrics struct {
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	ActiveRequests      prometheus.Gauge
	UpstreamDuration    *prometheus.HistogramVec
	UpstreamErrors      *prometheus.CounterVec
	SessionsActive      prometheus.GaugeFunc
	LoginsTotal         *prometheus.CounterVec
	AggregateFanouts    *prometheus.CounterVec
	ActivityQueueLength prometheus.GaugeFunc
}

// NewMetrics creates and registers all metrics with the given registerer.
// sessionCount and activityPending supply the live gauge readings; either
// may be nil, in which case the gauge reports zero.
func NewMetrics(reg prometheus.Registerer, sessionCount, activityPending func() int) *Metrics {
	gauge := func(fn func() int) func() float64 {
		return func() float64 {
			if fn == nil {
				return 0
			}
			return float64(fn())
		}
	}

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foyer",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       "foyer",
			Name:                            "request_duration_seconds",
			Help:                            "HTTP request duration in seconds.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"method", "path"}),

		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "foyer",
			Name:      "active_requests",
			Help:      "Number of currently active requests.",
		}),

		// Labeled by method only: upstream paths embed resource IDs and
		// would blow up cardinality.
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       "foyer",
			Name:                            "upstream_duration_seconds",
			Help:                            "Upstream API call duration in seconds.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"method"}),

		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foyer",
			Name:      "upstream_errors_total",
			Help:      "Total upstream errors by translated kind.",
		}, []string{"kind"}),

		SessionsActive: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "foyer",
			Name:      "sessions_active",
			Help:      "Current number of live browser sessions.",
		}, gauge(sessionCount)),

		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foyer",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome.",
		}, []string{"outcome"}),

		AggregateFanouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foyer",
			Name:      "aggregate_fanouts_total",
			Help:      "Total my-page fan-out aggregations by outcome.",
		}, []string{"outcome"}),

		ActivityQueueLength: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "foyer",
			Name:      "activity_queue_length",
			Help:      "Current number of queued activity records.",
		}, gauge(activityPending)),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ActiveRequests,
		m.UpstreamDuration,
		m.UpstreamErrors,
		m.SessionsActive,
		m.LoginsTotal,
		m.AggregateFanouts,
		m.ActivityQueueLength,
	)

	return m
}
