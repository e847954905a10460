package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/hindsight/internal/metrics"
	"github.com/yourusername/hindsight/internal/models"
	"github.com/yourusername/hindsight/internal/repository"
	"github.com/yourusername/hindsight/internal/strategy"
)

// Engine replays settled predictions chronologically and simulates betting
type Engine struct {
	repo   repository.PredictionRepository
	logger *logrus.Logger
}

// NewEngine creates a new backtesting engine
func NewEngine(repo repository.PredictionRepository, logger *logrus.Logger) (*Engine, error) {
	if repo == nil {
		return nil, fmt.Errorf("prediction repository is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{repo: repo, logger: logger}, nil
}

// Logger returns the engine logger
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// Run performs a one-shot read of settled predictions and replays them
func (e *Engine) Run(ctx context.Context, cfg SimulationConfig) (*models.BacktestResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	records, err := e.LoadPredictions(ctx, cfg)
	if err != nil {
		metrics.RecordSimulationRun(cfg.Strategy, "failure")
		return nil, err
	}
	result, err := e.Simulate(records, cfg)
	if err != nil {
		metrics.RecordSimulationRun(cfg.Strategy, "failure")
		return nil, err
	}
	metrics.RecordSimulationRun(cfg.Strategy, "success")
	return result, nil
}

// LoadPredictions fetches the settled records for a run's query window.
// Orchestrators call it once and share the slice across many simulations.
func (e *Engine) LoadPredictions(ctx context.Context, cfg SimulationConfig) ([]*models.PredictionRecord, error) {
	start, end := cfg.DateRange(time.Now().UTC())
	records, err := e.repo.GetSettledByDateRange(ctx, start, end, cfg.League)
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}
	return records, nil
}

// Simulate replays a fixed prediction set under one configuration. Pure
// computation over immutable input; safe to call concurrently with the same
// records slice.
func (e *Engine) Simulate(records []*models.PredictionRecord, cfg SimulationConfig) (*models.BacktestResult, error) {
	selector, err := strategy.Resolve(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	settled := settledOnly(records)
	matches := groupByMatch(settled)
	schedule := buildSchedule(matches)
	performance := strategy.BuildPerformanceTable(settled)
	sizer := cfg.Sizer()

	state := newSimState(cfg.StartingBankroll)
	for _, match := range matches {
		e.processMatch(match, schedule, selector, performance, sizer, cfg, state)
	}

	return e.aggregate(state, cfg), nil
}

// matchPredictions is one match's competing predictions in input order
type matchPredictions struct {
	info        matchInfo
	predictions []*models.PredictionRecord
}

func (e *Engine) processMatch(
	match matchPredictions,
	schedule []matchInfo,
	selector strategy.Selector,
	performance strategy.PerformanceTable,
	sizer StakeSizer,
	cfg SimulationConfig,
	state *simState,
) {
	sel, ok := selector.Select(strategy.Context{
		Predictions: match.predictions,
		Performance: performance,
	})
	if !ok || sel.Prediction == nil {
		return
	}
	if sel.Prediction.Confidence < cfg.MinConfidence {
		return
	}

	if name, pass := cfg.Filters.Evaluate(sel, match.info, schedule); !pass {
		state.Skip(name)
		return
	}

	stake := sizer.Stake(state.Bankroll, sel.Prediction.Confidence)
	if stake <= 0 || stake > state.Bankroll {
		// Invalid stake means no bet this match, not an error.
		return
	}

	profit := -stake
	result := models.BetResultLost
	if sel.Prediction.Won() {
		profit = stake * models.WinPayoutRatio
		result = models.BetResultWon
	}

	bet := models.Bet{
		ID:               uuid.New(),
		Date:             sel.Prediction.PredictedAt,
		Match:            sel.Prediction.MatchTitle(),
		MatchID:          sel.Prediction.MatchID,
		League:           sel.Prediction.League,
		Prediction:       sel.Prediction.Prediction,
		Confidence:       sel.Prediction.Confidence,
		Stake:            stake,
		Odds:             models.StandardAmericanOdds,
		Result:           result,
		Profit:           profit,
		BankrollAfter:    state.Bankroll + profit,
		Strategy:         selector.Name(),
		AlgorithmsAgreed: sel.AlgorithmsAgreed,
	}
	state.Settle(bet)
}

func (e *Engine) aggregate(state *simState, cfg SimulationConfig) *models.BacktestResult {
	result := &models.BacktestResult{
		ID:                uuid.New(),
		Strategy:          cfg.Strategy,
		TotalBets:         len(state.Bets),
		Wins:              state.Wins,
		Losses:            state.Losses,
		TotalProfit:       state.TotalProfit,
		TotalStaked:       state.TotalStaked,
		StartingBankroll:  cfg.StartingBankroll,
		FinalBankroll:     state.Bankroll,
		MaxDrawdown:       state.MaxDrawdown,
		MaxDrawdownPct:    state.MaxDrawdownPct,
		LongestWinStreak:  state.LongestWinStreak,
		LongestLoseStreak: state.LongestLoseStreak,
		ProfitByDay:       state.ProfitByDay(),
		Bets:              state.Bets,
		Filters: models.FilterReport{
			Applied:          cfg.Filters.Active(),
			SkippedByFilters: state.SkippedByFilters,
			SkippedTotal:     state.skippedTotal(),
		},
		GeneratedAt: time.Now().UTC(),
	}

	// Ratios default to 0 when their denominators are 0.
	if result.TotalBets > 0 {
		result.WinRate = float64(state.Wins) / float64(result.TotalBets) * 100
		result.AvgBetSize = state.TotalStaked / float64(result.TotalBets)
	}
	if state.TotalStaked > 0 {
		result.ROI = state.TotalProfit / state.TotalStaked * 100
	}
	result.BestDay, result.WorstDay = state.BestWorstDays()

	return result
}

func settledOnly(records []*models.PredictionRecord) []*models.PredictionRecord {
	settled := make([]*models.PredictionRecord, 0, len(records))
	for _, r := range records {
		if r != nil && r.IsSettled() {
			settled = append(settled, r)
		}
	}
	return settled
}

// groupByMatch buckets predictions by match and orders matches by the
// earliest predicted_at among each match's predictions. Within a match,
// input order is preserved so "first found" tie-breaks are deterministic.
func groupByMatch(records []*models.PredictionRecord) []matchPredictions {
	index := make(map[string]int, len(records))
	matches := make([]matchPredictions, 0, len(records))
	for _, r := range records {
		i, ok := index[r.MatchID]
		if !ok {
			index[r.MatchID] = len(matches)
			matches = append(matches, matchPredictions{info: matchInfo{
				ID:       r.MatchID,
				HomeTeam: r.HomeTeam,
				AwayTeam: r.AwayTeam,
				Start:    r.PredictedAt,
			}})
			i = len(matches) - 1
		}
		if r.PredictedAt.Before(matches[i].info.Start) {
			matches[i].info.Start = r.PredictedAt
		}
		matches[i].predictions = append(matches[i].predictions, r)
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].info.Start.Before(matches[b].info.Start)
	})
	return matches
}

func buildSchedule(matches []matchPredictions) []matchInfo {
	schedule := make([]matchInfo, 0, len(matches))
	for _, m := range matches {
		schedule = append(schedule, m.info)
	}
	return schedule
}
