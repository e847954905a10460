// Package metrics defines simulation-specific metric helpers.
package metrics

// RecordSimulationRun records one backtest replay.
// status should be one of: "success", "failure"
func RecordSimulationRun(strategy, status string) {
	SimulationRunsTotal.WithLabelValues(strategy, status).Inc()
}

// RecordOptimizerSweep records the start of an optimization sweep and resets
// the progress gauges.
func RecordOptimizerSweep(total int) {
	OptimizerSweepsTotal.Inc()
	OptimizerCombinationsDone.Set(0)
	OptimizerCombinationsTotal.Set(float64(total))
}

// SetOptimizerProgress updates sweep progress gauges.
func SetOptimizerProgress(done, total int) {
	OptimizerCombinationsDone.Set(float64(done))
	OptimizerCombinationsTotal.Set(float64(total))
}

// ObserveMonteCarloDuration records how long a resampling run took.
func ObserveMonteCarloDuration(seconds float64) {
	MonteCarloDuration.Observe(seconds)
}

// RecordPredictionFetch records a prediction store read.
// status should be one of: "success", "failure"
func RecordPredictionFetch(status string) {
	PredictionFetchesTotal.WithLabelValues(status).Inc()
}

// RecordPredictionCache records a cache lookup.
// result should be one of: "hit", "miss"
func RecordPredictionCache(result string) {
	PredictionCacheTotal.WithLabelValues(result).Inc()
}
