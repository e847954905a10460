package backtest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hindsight/internal/models"
)

// ComparatorConfig describes a multi-strategy comparison under one fixed
// stake, confidence and date-range configuration.
type ComparatorConfig struct {
	Strategies []string
	Base       SimulationConfig
	// Simulations and Seed feed each strategy's Monte Carlo pass
	Simulations int
	Seed        int64
}

// Comparator runs each strategy's backtest plus Monte Carlo pipeline and
// ranks the results.
type Comparator struct {
	engine *Engine
	logger *logrus.Logger
}

// NewComparator creates a new strategy comparator
func NewComparator(engine *Engine, logger *logrus.Logger) (*Comparator, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Comparator{engine: engine, logger: logger}, nil
}

// Run compares strategies over the same immutable prediction set. Each
// strategy's pipeline runs concurrently; results come back sorted descending
// by total realized profit.
func (c *Comparator) Run(ctx context.Context, cfg ComparatorConfig) ([]models.StrategyComparison, error) {
	if len(cfg.Strategies) == 0 {
		return nil, fmt.Errorf("at least one strategy is required")
	}

	probe := cfg.Base
	probe.Strategy = cfg.Strategies[0]
	records, err := c.engine.LoadPredictions(ctx, probe)
	if err != nil {
		return nil, err
	}

	comparisons := make([]models.StrategyComparison, len(cfg.Strategies))
	errs := make([]error, len(cfg.Strategies))
	var wg sync.WaitGroup
	for i, name := range cfg.Strategies {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			comparisons[i], errs[i] = c.runStrategy(ctx, records, name, cfg, int64(i))
		}(i, name)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("strategy %s failed: %w", cfg.Strategies[i], err)
		}
	}

	sort.SliceStable(comparisons, func(a, b int) bool {
		return comparisons[a].Backtest.TotalProfit > comparisons[b].Backtest.TotalProfit
	})
	return comparisons, nil
}

func (c *Comparator) runStrategy(
	ctx context.Context,
	records []*models.PredictionRecord,
	name string,
	cfg ComparatorConfig,
	offset int64,
) (models.StrategyComparison, error) {
	simCfg := cfg.Base
	simCfg.Strategy = name

	result, err := c.engine.Simulate(records, simCfg)
	if err != nil {
		return models.StrategyComparison{}, err
	}

	seed := cfg.Seed
	if seed != 0 {
		// Decorrelate strategies while keeping the whole comparison reproducible.
		seed += offset
	}
	mc, err := RunMonteCarlo(ctx, result.Bets, MonteCarloConfig{
		Simulations:      cfg.Simulations,
		Seed:             seed,
		StartingBankroll: simCfg.StartingBankroll,
		Stake:            simCfg.Sizer(),
	})
	if err != nil {
		return models.StrategyComparison{}, err
	}

	c.logger.WithFields(logrus.Fields{
		"strategy": name,
		"bets":     result.TotalBets,
		"profit":   result.TotalProfit,
	}).Info("Strategy comparison run complete")

	return models.StrategyComparison{
		Strategy:   name,
		Backtest:   result,
		MonteCarlo: mc,
	}, nil
}
