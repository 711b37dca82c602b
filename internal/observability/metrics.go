// Package observability provides run metrics for migration batches.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names and labels.
const (
	metricComponentsTotal = "relift_components_total"
	metricStageDuration   = "relift_stage_duration_seconds"

	labelStatus = "status"
	labelStage  = "stage"
)

// Component statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// stageBucketBoundaries covers 1ms to 60s: per-component stages range from
// sub-millisecond transforms to multi-second parses of large baselines.
var stageBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Metrics holds the instruments for one batch run. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	componentsTotal *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
}

// NewMetrics creates run metrics on an independent registry, avoiding
// collector conflicts across runs.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		componentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricComponentsTotal,
			Help: "Total number of components processed, by outcome status.",
		}, []string{labelStatus}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricStageDuration,
			Help:    "Duration of pipeline stages in seconds.",
			Buckets: stageBucketBoundaries,
		}, []string{labelStage}),
	}

	registry.MustRegister(m.componentsTotal, m.stageDuration)

	return m
}

// ObserveComponent counts one finished component by status.
func (m *Metrics) ObserveComponent(status string) {
	if m == nil {
		return
	}

	m.componentsTotal.WithLabelValues(status).Inc()
}

// ObserveStage records one pipeline stage duration.
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// Gatherer exposes the run's registry for exposition or inspection.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}

	return m.registry
}
