// Package metrics records extraction and refinement outcomes as Prometheus
// metrics on a private registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/curvex/extract"
	"github.com/katalvlaran/curvex/refine"
	"github.com/katalvlaran/curvex/stategraph"
)

// Collector implements extract.Observer and refine.Observer.
type Collector struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	evaluations   *prometheus.HistogramVec
	searchSeconds *prometheus.HistogramVec
	refinements   *prometheus.CounterVec
	refineIters   prometheus.Histogram
	refineSeconds prometheus.Histogram
}

var (
	_ extract.Observer = (*Collector)(nil)
	_ refine.Observer  = (*Collector)(nil)
)

// NewCollector registers every curvex metric on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "curvex_extract_queries_total",
			Help: "Extraction queries by state-graph mode and outcome",
		}, []string{"mode", "outcome"}),
		evaluations: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "curvex_extract_evaluations",
			Help:    "States expanded per extraction query",
			Buckets: prometheus.ExponentialBuckets(1, 10, 10), // 1 to 1e9
		}, []string{"mode"}),
		searchSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "curvex_extract_duration_seconds",
			Help:    "Extraction run time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
		}, []string{"mode"}),
		refinements: f.NewCounterVec(prometheus.CounterOpts{
			Name: "curvex_refine_total",
			Help: "Refinements by method, solver status and convergence",
		}, []string{"method", "status", "converged"}),
		refineIters: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "curvex_refine_iterations",
			Help:    "Major solver iterations per refinement",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
		}),
		refineSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "curvex_refine_duration_seconds",
			Help:    "Refinement run time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// Registry exposes the private registry for gathering.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveExtract implements extract.Observer.
func (c *Collector) ObserveExtract(mode stategraph.Mode, outcome extract.Outcome, evaluations int, elapsed time.Duration) {
	m := mode.String()
	c.queries.WithLabelValues(m, string(outcome)).Inc()
	c.evaluations.WithLabelValues(m).Observe(float64(evaluations))
	c.searchSeconds.WithLabelValues(m).Observe(elapsed.Seconds())
}

// ObserveRefine implements refine.Observer.
func (c *Collector) ObserveRefine(method refine.Method, status string, converged bool, iterations int, elapsed time.Duration) {
	c.refinements.WithLabelValues(method.String(), status, fmt.Sprint(converged)).Inc()
	c.refineIters.Observe(float64(iterations))
	c.refineSeconds.Observe(elapsed.Seconds())
}

// WriteFile writes every metric to path in the text exposition format.
func (c *Collector) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}

	return nil
}
