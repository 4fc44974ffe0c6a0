package monitoring

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cantina/internal/suggestion"
)

// MetricsCollector handles metrics collection and reporting for the
// suggestion pipeline.
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_runs_total",
			Help: "Pipeline runs by outcome status",
		},
		[]string{"status"},
	)

	generatedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_generated_total",
			Help: "Suggestions generated by source",
		},
		[]string{"source"},
	)

	confidenceHistogram := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggestion_confidence",
			Help:    "Confidence of generated suggestions",
			Buckets: prometheus.LinearBuckets(0, 0.25, 5),
		},
	)

	historyHistogram := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "historical_orders_loaded",
			Help:    "Historical orders loaded per pipeline run",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
	)

	durationHistogram := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggestion_run_duration_seconds",
			Help:    "Wall time of pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	// Create metrics map
	metrics := map[string]prometheus.Collector{
		"runs":       runsTotal,
		"generated":  generatedTotal,
		"confidence": confidenceHistogram,
		"history":    historyHistogram,
		"duration":   durationHistogram,
	}

	// Register metrics
	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &MetricsCollector{
		registry: registry,
		metrics:  metrics,
	}
}

// Registry exposes the collector's registry for the metrics HTTP handler
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// RecordRun records metrics for a completed pipeline run
func (mc *MetricsCollector) RecordRun(result suggestion.Result, duration time.Duration) {
	status := "success"
	if !result.Success {
		status = "failure"
	} else if result.Metadata.HistoricalOrders == 0 {
		status = "no_history"
	}

	if counter, ok := mc.metrics["runs"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(status).Inc()
	}
	if histogram, ok := mc.metrics["history"].(prometheus.Histogram); ok {
		histogram.Observe(float64(result.Metadata.HistoricalOrders))
	}
	if histogram, ok := mc.metrics["duration"].(prometheus.Histogram); ok {
		histogram.Observe(duration.Seconds())
	}

	for _, item := range result.Items {
		if item.Suggestion == nil || !item.Suggestion.HasSuggestion {
			continue
		}
		if counter, ok := mc.metrics["generated"].(*prometheus.CounterVec); ok {
			counter.WithLabelValues(baseSource(item.Suggestion.Source)).Inc()
		}
		if histogram, ok := mc.metrics["confidence"].(prometheus.Histogram); ok {
			histogram.Observe(item.Suggestion.Confidence)
		}
	}
}

// baseSource strips the "+adjusted(Nx)" marker so the source label stays low
// cardinality.
func baseSource(source string) string {
	if idx := strings.Index(source, "+"); idx > 0 {
		return source[:idx]
	}
	return source
}
