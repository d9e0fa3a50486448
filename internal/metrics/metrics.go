// Package metrics provides Prometheus metrics for the departby service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Poll result label values.
const (
	PollSuccess = "success"
	PollError   = "error"
	PollStale   = "stale_discarded"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance.
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Feed metrics
	FeedPollsTotal           *prometheus.CounterVec
	FeedLastSuccessTimestamp prometheus.Gauge
	PredictionsCurrent       prometheus.Gauge
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "departby_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "departby_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	feedPollsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "departby_feed_polls_total",
			Help: "Feed poll outcomes, including stale responses discarded by last-fetch-wins",
		},
		[]string{"result"},
	)

	feedLastSuccessTimestamp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "departby_feed_last_success_timestamp_seconds",
		Help: "Unix time of the last successfully applied feed poll",
	})

	predictionsCurrent := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "departby_predictions_current",
		Help: "Number of ranked predictions in the current snapshot",
	})

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		feedPollsTotal,
		feedLastSuccessTimestamp,
		predictionsCurrent,
	)

	return &Metrics{
		Registry:                 registry,
		HTTPRequestsTotal:        httpRequestsTotal,
		HTTPRequestDuration:      httpRequestDuration,
		FeedPollsTotal:           feedPollsTotal,
		FeedLastSuccessTimestamp: feedLastSuccessTimestamp,
		PredictionsCurrent:       predictionsCurrent,
	}
}
