package backtest

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/yourusername/hindsight/internal/metrics"
	"github.com/yourusername/hindsight/internal/models"
)

// MonteCarloConfig configures the bet-sequence resampler
type MonteCarloConfig struct {
	// Simulations defaults to 500
	Simulations int
	// Seed makes runs reproducible; 0 seeds from the clock
	Seed             int64
	StartingBankroll float64
	Stake            StakeSizer
	// PathSteps bounds the sampled bankroll path length, default 50
	PathSteps int
}

const (
	defaultSimulations = 500
	defaultPathSteps   = 50
	profitBuckets      = 10
)

// RunMonteCarlo estimates the outcome distribution of a realized bet list
// under randomized reordering. Each run reshuffles the bets and replays them,
// re-deriving the stake at every step from the then-current bankroll. A run
// that reaches zero bankroll busts and stops early.
func RunMonteCarlo(ctx context.Context, bets []models.Bet, cfg MonteCarloConfig) (models.MonteCarloResult, error) {
	if cfg.StartingBankroll <= 0 {
		return models.MonteCarloResult{}, fmt.Errorf("starting bankroll must be positive")
	}
	if cfg.Simulations <= 0 {
		cfg.Simulations = defaultSimulations
	}
	if cfg.PathSteps <= 0 {
		cfg.PathSteps = defaultPathSteps
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	started := time.Now()

	steps := cfg.PathSteps
	if len(bets) < steps {
		steps = len(bets)
	}

	runs := make([]models.SimulationRun, 0, cfg.Simulations)
	paths := make([][]float64, 0, cfg.Simulations)
	shuffled := make([]models.Bet, len(bets))
	copy(shuffled, bets)

	for i := 0; i < cfg.Simulations; i++ {
		if err := ctx.Err(); err != nil {
			return models.MonteCarloResult{}, err
		}
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		run, series := replayShuffled(shuffled, cfg)
		runs = append(runs, run)
		paths = append(paths, samplePath(series, len(bets), cfg.StartingBankroll, steps))
	}

	result := aggregateRuns(runs, cfg)
	result.BankrollPath = percentilePath(paths, steps)
	metrics.ObserveMonteCarloDuration(time.Since(started).Seconds())
	return result, nil
}

// replayShuffled plays one shuffled ordering, returning the run outcome and
// the bankroll series after each step.
func replayShuffled(bets []models.Bet, cfg MonteCarloConfig) (models.SimulationRun, []float64) {
	bankroll := cfg.StartingBankroll
	peak := bankroll
	maxDDPct := 0.0
	series := make([]float64, 0, len(bets))
	busted := false

	for _, bet := range bets {
		stake := cfg.Stake.Stake(bankroll, bet.Confidence)
		if stake > 0 {
			if bet.Won() {
				bankroll += stake * models.WinPayoutRatio
			} else {
				bankroll -= stake
			}
		}
		series = append(series, bankroll)

		if bankroll > peak {
			peak = bankroll
		}
		if peak > 0 {
			if dd := (peak - bankroll) / peak * 100; dd > maxDDPct {
				maxDDPct = dd
			}
		}
		if bankroll <= 0 {
			busted = true
			break
		}
	}

	return models.SimulationRun{
		FinalBankroll:  bankroll,
		TotalProfit:    bankroll - cfg.StartingBankroll,
		MaxDrawdownPct: maxDDPct,
		Busted:         busted,
	}, series
}

func aggregateRuns(runs []models.SimulationRun, cfg MonteCarloConfig) models.MonteCarloResult {
	n := len(runs)
	finals := make([]float64, 0, n)
	profits := make([]float64, 0, n)
	drawdowns := make([]float64, 0, n)
	busts := 0
	profitable := 0
	for _, r := range runs {
		finals = append(finals, r.FinalBankroll)
		profits = append(profits, r.TotalProfit)
		drawdowns = append(drawdowns, r.MaxDrawdownPct)
		if r.Busted {
			busts++
		}
		if r.TotalProfit > 0 {
			profitable++
		}
	}

	result := models.MonteCarloResult{
		Simulations:         n,
		Runs:                runs,
		BankrollPercentiles: percentileSummary(finals),
		ProfitPercentiles:   percentileSummary(profits),
		AvgFinalBankroll:    average(finals),
		AvgProfit:           average(profits),
		AvgDrawdownPct:      average(drawdowns),
		ProfitHistogram:     profitHistogram(profits),
		DrawdownHistogram:   drawdownHistogram(drawdowns),
	}
	if n > 0 {
		result.BustProbability = float64(busts) / float64(n)
		result.ProfitProbability = float64(profitable) / float64(n)
	}
	return result
}

func percentileSummary(values []float64) models.Percentiles {
	sorted := sortedCopy(values)
	return models.Percentiles{
		P5:  percentile(sorted, 0.05),
		P25: percentile(sorted, 0.25),
		P50: percentile(sorted, 0.50),
		P75: percentile(sorted, 0.75),
		P95: percentile(sorted, 0.95),
	}
}

// profitHistogram builds ten equal-width buckets spanning min to max observed
// profit, the last bucket inclusive of the max.
func profitHistogram(profits []float64) []models.HistogramBucket {
	buckets := make([]models.HistogramBucket, profitBuckets)
	if len(profits) == 0 {
		return buckets
	}
	min, max := profits[0], profits[0]
	for _, p := range profits {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	width := (max - min) / profitBuckets
	for i := range buckets {
		buckets[i].Min = min + width*float64(i)
		buckets[i].Max = min + width*float64(i+1)
		buckets[i].Label = fmt.Sprintf("%.0f to %.0f", buckets[i].Min, buckets[i].Max)
	}
	for _, p := range profits {
		i := 0
		if width > 0 {
			i = int((p - min) / width)
			if i >= profitBuckets {
				i = profitBuckets - 1
			}
		}
		buckets[i].Count++
	}
	return buckets
}

// drawdownHistogram uses fixed severity bands over drawdown percentages
func drawdownHistogram(drawdowns []float64) []models.HistogramBucket {
	buckets := []models.HistogramBucket{
		{Label: "<10%", Min: 0, Max: 10},
		{Label: "10-20%", Min: 10, Max: 20},
		{Label: "20-30%", Min: 20, Max: 30},
		{Label: "30-50%", Min: 30, Max: 50},
		{Label: ">=50%", Min: 50, Max: 100},
	}
	for _, dd := range drawdowns {
		switch {
		case dd < 10:
			buckets[0].Count++
		case dd < 20:
			buckets[1].Count++
		case dd < 30:
			buckets[2].Count++
		case dd < 50:
			buckets[3].Count++
		default:
			buckets[4].Count++
		}
	}
	return buckets
}

// samplePath reads a run's bankroll series at steps evenly spaced over the
// full intended run length, padding a run that busted early by repeating its
// final bankroll.
func samplePath(series []float64, fullLen int, startingBankroll float64, steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	sampled := make([]float64, steps)
	if len(series) == 0 {
		for i := range sampled {
			sampled[i] = startingBankroll
		}
		return sampled
	}
	if steps == 1 {
		sampled[0] = series[len(series)-1]
		return sampled
	}
	for i := 0; i < steps; i++ {
		idx := i * (fullLen - 1) / (steps - 1)
		if idx >= len(series) {
			idx = len(series) - 1
		}
		sampled[i] = series[idx]
	}
	return sampled
}

// percentilePath computes per-step percentile bands across all runs
func percentilePath(paths [][]float64, steps int) []models.PathPoint {
	if steps <= 0 || len(paths) == 0 {
		return nil
	}
	points := make([]models.PathPoint, 0, steps)
	column := make([]float64, 0, len(paths))
	for step := 0; step < steps; step++ {
		column = column[:0]
		for _, p := range paths {
			if step < len(p) {
				column = append(column, p[step])
			}
		}
		points = append(points, models.PathPoint{
			Step:     step,
			Bankroll: percentileSummary(column),
		})
	}
	return points
}
