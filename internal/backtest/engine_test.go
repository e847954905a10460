package backtest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/yourusername/hindsight/internal/models"
	"github.com/yourusername/hindsight/internal/strategy"
)

// stubRepo serves a fixed record set for engine tests
type stubRepo struct {
	records []*models.PredictionRecord
	err     error
	calls   int
}

func (s *stubRepo) GetSettledByDateRange(ctx context.Context, start, end time.Time, league string) ([]*models.PredictionRecord, error) {
	s.calls++
	return s.records, s.err
}

func (s *stubRepo) GetByMatchID(ctx context.Context, matchID string) ([]*models.PredictionRecord, error) {
	return nil, models.ErrNotFound
}

func (s *stubRepo) GetAlgorithmIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func testConfig() SimulationConfig {
	return SimulationConfig{
		Strategy:         strategy.HighestConfidence,
		StartingBankroll: 1000,
		StakeType:        StakeFlat,
		StakeAmount:      100,
	}
}

// settledRecord builds one single-algorithm match record, one day apart per index
func settledRecord(matchID string, confidence float64, status models.PredictionStatus, day int) *models.PredictionRecord {
	return &models.PredictionRecord{
		MatchID:     matchID,
		AlgorithmID: "alpha",
		Prediction:  "Hawks win",
		Confidence:  confidence,
		Status:      status,
		PredictedAt: time.Date(2025, 11, 1+day, 19, 0, 0, 0, time.UTC),
		HomeTeam:    "Hawks",
		AwayTeam:    "Eagles",
	}
}

func newTestEngine(t *testing.T, records []*models.PredictionRecord) *Engine {
	t.Helper()
	engine, err := NewEngine(&stubRepo{records: records}, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestNewEngineRequiresRepository(t *testing.T) {
	if _, err := NewEngine(nil, nil); err == nil {
		t.Fatal("expected an error for a nil repository")
	}
}

func TestSimulateThreeWinsFlatStake(t *testing.T) {
	records := []*models.PredictionRecord{
		settledRecord("m1", 60, models.PredictionStatusWon, 0),
		settledRecord("m2", 60, models.PredictionStatusWon, 1),
		settledRecord("m3", 60, models.PredictionStatusWon, 2),
	}
	engine := newTestEngine(t, records)

	result, err := engine.Simulate(records, testConfig())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if result.TotalBets != 3 || result.Wins != 3 {
		t.Fatalf("expected 3 winning bets, got %d bets %d wins", result.TotalBets, result.Wins)
	}
	if !almostEqual(result.TotalProfit, 272.73) {
		t.Errorf("expected total profit 272.73, got %.2f", result.TotalProfit)
	}
	if !almostEqual(result.FinalBankroll, 1272.73) {
		t.Errorf("expected final bankroll 1272.73, got %.2f", result.FinalBankroll)
	}
	if !almostEqual(result.ROI, 90.91) {
		t.Errorf("expected ROI 90.91, got %.2f", result.ROI)
	}
	if result.WinRate != 100 {
		t.Errorf("expected win rate 100, got %.2f", result.WinRate)
	}
	if result.LongestWinStreak != 3 {
		t.Errorf("expected win streak 3, got %d", result.LongestWinStreak)
	}
}

func TestSimulateThreeLossesDrawdown(t *testing.T) {
	records := []*models.PredictionRecord{
		settledRecord("m1", 60, models.PredictionStatusLost, 0),
		settledRecord("m2", 60, models.PredictionStatusLost, 1),
		settledRecord("m3", 60, models.PredictionStatusLost, 2),
	}
	engine := newTestEngine(t, records)

	result, err := engine.Simulate(records, testConfig())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if !almostEqual(result.FinalBankroll, 700) {
		t.Errorf("expected final bankroll 700, got %.2f", result.FinalBankroll)
	}
	if !almostEqual(result.MaxDrawdown, 300) {
		t.Errorf("expected max drawdown 300, got %.2f", result.MaxDrawdown)
	}
	if !almostEqual(result.MaxDrawdownPct, 30) {
		t.Errorf("expected max drawdown 30%%, got %.2f", result.MaxDrawdownPct)
	}
	if result.LongestLoseStreak != 3 {
		t.Errorf("expected lose streak 3, got %d", result.LongestLoseStreak)
	}
}

func TestSimulateDrawdownMaximaTrackedIndependently(t *testing.T) {
	// Three opening losses put the bankroll at 700, a 30% drawdown off the
	// 1000 peak. Ten wins lift the peak to 1609.09, then four losses pull
	// it down by 400 absolute, which is only 24.86% of the new peak. The
	// percentage maximum must stay at the early 30%.
	var records []*models.PredictionRecord
	day := 0
	for i := 0; i < 3; i++ {
		records = append(records, settledRecord("l1-"+string(rune('a'+i)), 60, models.PredictionStatusLost, day))
		day++
	}
	for i := 0; i < 10; i++ {
		records = append(records, settledRecord("w-"+string(rune('a'+i)), 60, models.PredictionStatusWon, day))
		day++
	}
	for i := 0; i < 4; i++ {
		records = append(records, settledRecord("l2-"+string(rune('a'+i)), 60, models.PredictionStatusLost, day))
		day++
	}
	engine := newTestEngine(t, records)

	result, err := engine.Simulate(records, testConfig())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if !almostEqual(result.MaxDrawdown, 400) {
		t.Errorf("expected max drawdown 400, got %.2f", result.MaxDrawdown)
	}
	if !almostEqual(result.MaxDrawdownPct, 30) {
		t.Errorf("expected max drawdown 30%%, got %.2f", result.MaxDrawdownPct)
	}
}

func TestSimulateEmptyInputZeroActivity(t *testing.T) {
	engine := newTestEngine(t, nil)

	result, err := engine.Simulate(nil, testConfig())
	if err != nil {
		t.Fatalf("empty input must not be an error: %v", err)
	}
	if result.TotalBets != 0 {
		t.Errorf("expected zero bets, got %d", result.TotalBets)
	}
	if result.WinRate != 0 || result.ROI != 0 {
		t.Errorf("expected zero ratios, got winRate=%.2f roi=%.2f", result.WinRate, result.ROI)
	}
	if result.FinalBankroll != 1000 {
		t.Errorf("expected untouched bankroll, got %.2f", result.FinalBankroll)
	}
}

func TestSimulatePendingPredictionsExcluded(t *testing.T) {
	records := []*models.PredictionRecord{
		settledRecord("m1", 60, models.PredictionStatusPending, 0),
		settledRecord("m2", 60, models.PredictionStatusPending, 1),
	}
	engine := newTestEngine(t, records)

	result, err := engine.Simulate(records, testConfig())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.TotalBets != 0 {
		t.Errorf("pending predictions must never settle bets, got %d", result.TotalBets)
	}
}

func TestSimulateMinConfidenceGate(t *testing.T) {
	records := []*models.PredictionRecord{
		settledRecord("m1", 55, models.PredictionStatusWon, 0),
		settledRecord("m2", 75, models.PredictionStatusWon, 1),
	}
	engine := newTestEngine(t, records)

	cfg := testConfig()
	cfg.MinConfidence = 70
	result, err := engine.Simulate(records, cfg)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.TotalBets != 1 {
		t.Fatalf("expected only the 75-confidence bet, got %d", result.TotalBets)
	}
	if result.Bets[0].Confidence != 75 {
		t.Errorf("wrong bet survived the gate: %.0f", result.Bets[0].Confidence)
	}
}

func TestSimulateAllAgreeWithTwoPredictionsNeverBets(t *testing.T) {
	a := settledRecord("m1", 60, models.PredictionStatusWon, 0)
	b := settledRecord("m1", 70, models.PredictionStatusWon, 0)
	b.AlgorithmID = "beta"
	records := []*models.PredictionRecord{a, b}
	engine := newTestEngine(t, records)

	cfg := testConfig()
	cfg.Strategy = strategy.AllAgree
	result, err := engine.Simulate(records, cfg)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.TotalBets != 0 {
		t.Errorf("all_agree with two predictions must not bet, got %d bets", result.TotalBets)
	}
}

func TestSimulateFilterSkipsAreCounted(t *testing.T) {
	records := []*models.PredictionRecord{
		settledRecord("m1", 60, models.PredictionStatusWon, 0),
		settledRecord("m2", 60, models.PredictionStatusWon, 1),
	}
	engine := newTestEngine(t, records)

	cfg := testConfig()
	cfg.Filters.MinAlgorithmsAgreeing = 2
	result, err := engine.Simulate(records, cfg)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.TotalBets != 0 {
		t.Fatalf("expected every single-algorithm bet filtered, got %d", result.TotalBets)
	}
	if result.Filters.SkippedByFilters[FilterMinAlgorithms] != 2 {
		t.Errorf("expected 2 min_algorithms skips, got %d", result.Filters.SkippedByFilters[FilterMinAlgorithms])
	}
	if result.Filters.SkippedTotal != 2 {
		t.Errorf("expected skipped total 2, got %d", result.Filters.SkippedTotal)
	}
}

func TestSimulateProfitByDayCumulative(t *testing.T) {
	records := []*models.PredictionRecord{
		settledRecord("m1", 60, models.PredictionStatusWon, 0),
		settledRecord("m2", 60, models.PredictionStatusLost, 0),
		settledRecord("m3", 60, models.PredictionStatusWon, 1),
	}
	engine := newTestEngine(t, records)

	result, err := engine.Simulate(records, testConfig())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.ProfitByDay) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(result.ProfitByDay))
	}
	day1, day2 := result.ProfitByDay[0], result.ProfitByDay[1]
	if !almostEqual(day1.Profit, -9.09) {
		t.Errorf("expected day 1 profit -9.09, got %.2f", day1.Profit)
	}
	if !almostEqual(day2.CumulativeProfit, day1.Profit+day2.Profit) {
		t.Errorf("cumulative profit must accumulate across days")
	}
	if day2.Date <= day1.Date {
		t.Errorf("day buckets must be chronological: %s then %s", day1.Date, day2.Date)
	}
}

func TestRunValidatesConfig(t *testing.T) {
	engine := newTestEngine(t, nil)

	cfg := testConfig()
	cfg.StakeType = "martingale"
	_, err := engine.Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected an invalid stake type error")
	}
}

func TestRunPropagatesRepositoryError(t *testing.T) {
	repo := &stubRepo{err: models.ErrNotFound}
	engine, err := NewEngine(repo, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	_, err = engine.Run(context.Background(), testConfig())
	if err == nil {
		t.Fatal("expected the repository error to surface")
	}
}

func TestSimulateMatchesReplayedChronologically(t *testing.T) {
	// Input deliberately out of order; settlement must follow match start time.
	records := []*models.PredictionRecord{
		settledRecord("m2", 60, models.PredictionStatusWon, 5),
		settledRecord("m1", 60, models.PredictionStatusLost, 1),
	}
	engine := newTestEngine(t, records)

	result, err := engine.Simulate(records, testConfig())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.Bets) != 2 {
		t.Fatalf("expected 2 bets, got %d", len(result.Bets))
	}
	if result.Bets[0].MatchID != "m1" {
		t.Errorf("expected the earlier match settled first, got %s", result.Bets[0].MatchID)
	}
}
