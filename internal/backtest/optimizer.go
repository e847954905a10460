package backtest

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hindsight/internal/metrics"
	"github.com/yourusername/hindsight/internal/models"
)

// Sweep defaults for stake types that take no multiplier list
const (
	defaultFlatStake       = 100
	defaultPercentageStake = 5
	defaultConfidenceStep  = 5
)

// OptimizerConfig describes a brute-force parameter sweep
type OptimizerConfig struct {
	Strategies       []string
	ConfidenceMin    float64
	ConfidenceMax    float64
	ConfidenceStep   float64
	StakeTypes       []StakeType
	KellyMultipliers []float64
	Base             SimulationConfig
	// OnProgress receives (combinations completed, total) as the sweep runs
	OnProgress func(done, total int)
}

// Optimizer drives the backtest engine across the Cartesian product of
// strategies, confidence thresholds and staking schemes.
type Optimizer struct {
	engine *Engine
	logger *logrus.Logger
}

// NewOptimizer creates a new sweep driver
func NewOptimizer(engine *Engine, logger *logrus.Logger) (*Optimizer, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Optimizer{engine: engine, logger: logger}, nil
}

type combination struct {
	strategy    string
	confidence  float64
	stakeType   StakeType
	stakeAmount float64
}

// Run loads predictions once, then backtests every combination. A failing
// combination aborts the whole sweep. Rows come back sorted descending by ROI
// with the top row exposed as Best.
func (o *Optimizer) Run(ctx context.Context, cfg OptimizerConfig) (*models.OptimizationReport, error) {
	if len(cfg.Strategies) == 0 {
		return nil, fmt.Errorf("at least one strategy is required")
	}
	combos := o.combinations(cfg)
	metrics.RecordOptimizerSweep(len(combos))
	o.logger.WithFields(logrus.Fields{
		"strategies":   len(cfg.Strategies),
		"combinations": len(combos),
	}).Info("Starting optimization sweep")

	probe := cfg.Base
	probe.Strategy = cfg.Strategies[0]
	records, err := o.engine.LoadPredictions(ctx, probe)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, models.ErrNoPredictions
	}

	report := &models.OptimizationReport{Combinations: len(combos)}
	for i, combo := range combos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		simCfg := cfg.Base
		simCfg.Strategy = combo.strategy
		simCfg.MinConfidence = combo.confidence
		simCfg.StakeType = combo.stakeType
		simCfg.StakeAmount = combo.stakeAmount

		result, err := o.engine.Simulate(records, simCfg)
		if err != nil {
			metrics.RecordSimulationRun(combo.strategy, "failure")
			return nil, fmt.Errorf("combination %s/%.0f/%s failed: %w",
				combo.strategy, combo.confidence, combo.stakeType, err)
		}

		report.Rows = append(report.Rows, models.OptimizationRow{
			Strategy:       combo.strategy,
			MinConfidence:  combo.confidence,
			StakeType:      string(combo.stakeType),
			StakeAmount:    combo.stakeAmount,
			ROI:            result.ROI,
			WinRate:        result.WinRate,
			TotalBets:      result.TotalBets,
			TotalProfit:    result.TotalProfit,
			MaxDrawdownPct: result.MaxDrawdownPct,
			SharpeRatio:    SharpeRatio(DailyReturns(result)),
		})
		report.Heatmap = append(report.Heatmap, models.HeatmapCell{
			Strategy:      combo.strategy,
			MinConfidence: combo.confidence,
			StakeType:     string(combo.stakeType),
			ROI:           result.ROI,
			Profit:        result.TotalProfit,
			WinRate:       result.WinRate,
		})

		done := i + 1
		metrics.SetOptimizerProgress(done, len(combos))
		if cfg.OnProgress != nil {
			cfg.OnProgress(done, len(combos))
		}
		if done%10 == 0 {
			o.logger.WithFields(logrus.Fields{"done": done, "total": len(combos)}).Debug("Sweep progress")
		}
	}

	sort.SliceStable(report.Rows, func(a, b int) bool {
		return report.Rows[a].ROI > report.Rows[b].ROI
	})
	if len(report.Rows) > 0 {
		report.Best = &report.Rows[0]
	}
	return report, nil
}

// combinations expands the full Cartesian product of the sweep space
func (o *Optimizer) combinations(cfg OptimizerConfig) []combination {
	step := cfg.ConfidenceStep
	if step <= 0 {
		step = defaultConfidenceStep
	}
	stakeTypes := cfg.StakeTypes
	if len(stakeTypes) == 0 {
		stakeTypes = []StakeType{StakeFlat, StakePercentage, StakeKelly}
	}
	kellyMultipliers := cfg.KellyMultipliers
	if len(kellyMultipliers) == 0 {
		kellyMultipliers = []float64{25, 50, 100}
	}

	// Confidence levels are derived from an integer count; accumulating the
	// step in a float loop can skip the upper bound for fractional steps.
	confSteps := int(math.Floor((cfg.ConfidenceMax-cfg.ConfidenceMin)/step + 1e-9))
	if confSteps < 0 {
		confSteps = -1
	}

	var combos []combination
	for _, strat := range cfg.Strategies {
		for i := 0; i <= confSteps; i++ {
			conf := cfg.ConfidenceMin + float64(i)*step
			for _, stakeType := range stakeTypes {
				for _, amount := range stakeAmounts(stakeType, kellyMultipliers) {
					combos = append(combos, combination{
						strategy:    strat,
						confidence:  conf,
						stakeType:   stakeType,
						stakeAmount: amount,
					})
				}
			}
		}
	}
	return combos
}

// stakeAmounts returns the amounts to try for a stake type. Only kelly sweeps
// a list; flat and percentage use fixed defaults.
func stakeAmounts(stakeType StakeType, kellyMultipliers []float64) []float64 {
	switch stakeType {
	case StakeKelly:
		return kellyMultipliers
	case StakePercentage:
		return []float64{defaultPercentageStake}
	default:
		return []float64{defaultFlatStake}
	}
}
