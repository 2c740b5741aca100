// Package metrics exports per-operation counters of the sparse engine.
// Everything is recorded once per operation, never per term.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpoly_operations_total",
			Help: "Number of completed sparse polynomial operations",
		},
		[]string{"op"},
	)

	escalations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpoly_width_escalations_total",
			Help: "Number of restarts at a wider exponent packing",
		},
		[]string{"op"},
	)

	heapPeak = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mpoly_heap_peak_entries",
			Help:    "Largest number of simultaneous heap nodes in one operation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"op"},
	)
)

func Operation(op string) {
	operations.WithLabelValues(op).Inc()
}

func Escalation(op string) {
	escalations.WithLabelValues(op).Inc()
}

func HeapPeak(op string, peak int) {
	heapPeak.WithLabelValues(op).Observe(float64(peak))
}
