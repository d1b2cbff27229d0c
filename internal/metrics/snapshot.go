// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "uscensus_snapshot_rows",
		Help: "Rows fetched per snapshot target (last refresh)",
	}, []string{"target"})

	snapshotErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uscensus_snapshot_errors_total",
		Help: "Snapshot target failures by target",
	}, []string{"target"})

	snapshotDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uscensus_snapshot_duration_seconds",
		Help:    "Duration of full snapshot refresh runs",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	cacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uscensus_cache_ops_total",
		Help: "Table cache operations by result",
	}, []string{"result"}) // result=hit|miss
)

// SetSnapshotRows records the row count of a refreshed target.
func SetSnapshotRows(target string, rows int) {
	snapshotRows.WithLabelValues(target).Set(float64(rows))
}

// RecordSnapshotError counts a failed snapshot target.
func RecordSnapshotError(target string) {
	snapshotErrors.WithLabelValues(target).Inc()
}

// ObserveSnapshotDuration records the duration of a refresh run.
func ObserveSnapshotDuration(d time.Duration) {
	snapshotDuration.Observe(d.Seconds())
}

// RecordCacheHit counts a table cache hit.
func RecordCacheHit() { cacheOps.WithLabelValues("hit").Inc() }

// RecordCacheMiss counts a table cache miss.
func RecordCacheMiss() { cacheOps.WithLabelValues("miss").Inc() }
