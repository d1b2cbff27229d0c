// SPDX-License-Identifier: MIT

// Package metrics exposes prometheus instrumentation for the gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uscensus_upstream_requests_total",
		Help: "Census API requests by dataset and outcome",
	}, []string{"dataset", "outcome"}) // outcome=success|error

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uscensus_upstream_request_duration_seconds",
		Help:    "Census API request latency by dataset",
		Buckets: prometheus.DefBuckets,
	}, []string{"dataset"})

	upstreamRateWaits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uscensus_upstream_ratelimit_waits_total",
		Help: "Requests delayed by the client-side Census API rate limiter",
	})
)

// ObserveUpstreamRequest records one Census API call.
func ObserveUpstreamRequest(dataset string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	upstreamRequests.WithLabelValues(dataset, outcome).Inc()
	upstreamDuration.WithLabelValues(dataset).Observe(duration.Seconds())
}

// RecordRateLimitWait counts a request that had to wait for the upstream limiter.
func RecordRateLimitWait() {
	upstreamRateWaits.Inc()
}
