// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "uscensus_http_ratelimit_rejected_total",
	Help: "HTTP requests rejected by the per-client rate limiter",
}, []string{"scope"}) // scope=api|refresh

// RecordRateLimitRejection counts a 429 served by the HTTP rate limiter.
func RecordRateLimitRejection(scope string) {
	httpRateLimited.WithLabelValues(scope).Inc()
}
