// Package metrics provides the centralized Prometheus metrics registry for
// the simulation engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hindsight",
		Name:      "simulation_runs_total",
		Help:      "Total number of backtest simulation runs by strategy and status",
	}, []string{"strategy", "status"})
	OptimizerSweepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hindsight",
		Name:      "optimizer_sweeps_total",
		Help:      "Total number of optimization sweeps started",
	})
	PredictionFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hindsight",
		Name:      "prediction_fetches_total",
		Help:      "Total number of prediction store reads by outcome",
	}, []string{"status"})
	PredictionCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hindsight",
		Name:      "prediction_cache_total",
		Help:      "Prediction cache lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	OptimizerCombinationsDone = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hindsight",
		Name:      "optimizer_combinations_done",
		Help:      "Combinations completed in the current optimization sweep",
	})
	OptimizerCombinationsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hindsight",
		Name:      "optimizer_combinations_total",
		Help:      "Total combinations in the current optimization sweep",
	})
)

// Histogram metrics
var (
	MonteCarloDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hindsight",
		Name:      "monte_carlo_duration_seconds",
		Help:      "Duration of Monte Carlo resampling runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(OptimizerSweepsTotal)
		registry.MustRegister(PredictionFetchesTotal)
		registry.MustRegister(PredictionCacheTotal)
		registry.MustRegister(OptimizerCombinationsDone)
		registry.MustRegister(OptimizerCombinationsTotal)
		registry.MustRegister(MonteCarloDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
