package backtest

import (
	"math"
	"sort"

	"github.com/yourusername/hindsight/internal/models"
)

// annualization factor for daily betting returns
const tradingDaysPerYear = 365

// DailyReturns derives per-day fractional returns from a run's day-indexed
// profit series, each day's profit relative to the bankroll at that day's
// start.
func DailyReturns(result *models.BacktestResult) []float64 {
	if result == nil {
		return nil
	}
	returns := make([]float64, 0, len(result.ProfitByDay))
	for _, day := range result.ProfitByDay {
		start := day.Bankroll - day.Profit
		if start <= 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, day.Profit/start)
	}
	return returns
}

// SharpeRatio annualizes mean over standard deviation of daily returns.
// Defined as 0 with fewer than two returns or zero variance.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := average(returns)
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// percentile reads the p-quantile from an already sorted slice
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64{}, values...)
	sort.Float64s(out)
	return out
}
