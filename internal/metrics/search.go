package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search service metrics.
var (
	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of searches by ranking strategy",
		},
		[]string{"strategy"},
	)

	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of records returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent ranking the catalog",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"strategy"},
	)

	historyDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_dropped_total",
			Help:      "Search history records dropped because the write queue was full",
		},
	)
)

// ObserveSearch records one served search.
func ObserveSearch(strategy string, results int, elapsed time.Duration) {
	searchesTotal.WithLabelValues(strategy).Inc()
	searchResults.Observe(float64(results))
	searchDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveHistoryDrop counts a history record that could not be queued.
func ObserveHistoryDrop() {
	historyDropped.Inc()
}
