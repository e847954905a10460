package strategy

import (
	"errors"
	"testing"
	"time"

	"github.com/yourusername/hindsight/internal/models"
)

func record(algorithm, outcome string, confidence float64, status models.PredictionStatus) *models.PredictionRecord {
	return &models.PredictionRecord{
		MatchID:     "match-1",
		AlgorithmID: algorithm,
		Prediction:  outcome,
		Confidence:  confidence,
		Status:      status,
		PredictedAt: time.Date(2025, 11, 1, 19, 0, 0, 0, time.UTC),
	}
}

func TestResolveCanonicalNames(t *testing.T) {
	for _, name := range []string{AllAgree, MajorityAgree, HighestConfidence, BestPerformer} {
		selector, err := Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", name, err)
		}
		if selector.Name() != name {
			t.Errorf("expected name %s, got %s", name, selector.Name())
		}
	}
}

func TestResolveEmptyName(t *testing.T) {
	_, err := Resolve("")
	if !errors.Is(err, models.ErrStrategyNameEmpty) {
		t.Fatalf("expected ErrStrategyNameEmpty, got %v", err)
	}
}

func TestResolveUnknownNameIsPerAlgorithm(t *testing.T) {
	selector, err := Resolve("neural_v2")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if selector.Name() != "neural_v2" {
		t.Fatalf("expected per-algorithm selector named neural_v2, got %s", selector.Name())
	}

	sel, ok := selector.Select(Context{Predictions: []*models.PredictionRecord{
		record("other", "Hawks", 70, models.PredictionStatusWon),
		record("neural_v2", "Hawks", 55, models.PredictionStatusWon),
	}})
	if !ok {
		t.Fatal("expected a selection for the named algorithm")
	}
	if sel.Prediction.AlgorithmID != "neural_v2" {
		t.Errorf("expected neural_v2 prediction, got %s", sel.Prediction.AlgorithmID)
	}
	if sel.AlgorithmsAgreed != 2 {
		t.Errorf("expected agreement of 2, got %d", sel.AlgorithmsAgreed)
	}
}

func TestAllAgreeRequiresThreePredictions(t *testing.T) {
	selector, _ := Resolve(AllAgree)
	_, ok := selector.Select(Context{Predictions: []*models.PredictionRecord{
		record("a", "Hawks", 60, models.PredictionStatusWon),
		record("b", "Hawks", 70, models.PredictionStatusWon),
	}})
	if ok {
		t.Fatal("all_agree must never bet with fewer than three predictions")
	}
}

func TestAllAgreeRejectsDisagreement(t *testing.T) {
	selector, _ := Resolve(AllAgree)
	_, ok := selector.Select(Context{Predictions: []*models.PredictionRecord{
		record("a", "Hawks", 60, models.PredictionStatusWon),
		record("b", "Hawks", 70, models.PredictionStatusWon),
		record("c", "Eagles", 80, models.PredictionStatusLost),
	}})
	if ok {
		t.Fatal("all_agree must not bet when any algorithm disagrees")
	}
}

func TestAllAgreePicksHighestConfidence(t *testing.T) {
	selector, _ := Resolve(AllAgree)
	sel, ok := selector.Select(Context{Predictions: []*models.PredictionRecord{
		record("a", "Hawks", 60, models.PredictionStatusWon),
		record("b", "Hawks", 75, models.PredictionStatusWon),
		record("c", "Hawks", 70, models.PredictionStatusWon),
	}})
	if !ok {
		t.Fatal("expected unanimous selection")
	}
	if sel.Prediction.Confidence != 75 {
		t.Errorf("expected the 75-confidence pick, got %.0f", sel.Prediction.Confidence)
	}
	if sel.AlgorithmsAgreed != 3 {
		t.Errorf("expected agreement of 3, got %d", sel.AlgorithmsAgreed)
	}
}

func TestMajorityAgree(t *testing.T) {
	selector, _ := Resolve(MajorityAgree)

	sel, ok := selector.Select(Context{Predictions: []*models.PredictionRecord{
		record("a", "Hawks", 60, models.PredictionStatusWon),
		record("b", "Eagles", 90, models.PredictionStatusLost),
		record("c", "Hawks", 72, models.PredictionStatusWon),
	}})
	if !ok {
		t.Fatal("expected a majority selection")
	}
	if sel.Prediction.Prediction != "Hawks" {
		t.Errorf("expected the majority outcome, got %s", sel.Prediction.Prediction)
	}
	if sel.Prediction.Confidence != 72 {
		t.Errorf("expected the stronger member of the majority, got %.0f", sel.Prediction.Confidence)
	}

	_, ok = selector.Select(Context{Predictions: []*models.PredictionRecord{
		record("a", "Hawks", 60, models.PredictionStatusWon),
		record("b", "Eagles", 90, models.PredictionStatusLost),
	}})
	if ok {
		t.Fatal("expected no bet when every outcome has a single backer")
	}
}

func TestHighestConfidenceFirstFoundTieBreak(t *testing.T) {
	selector, _ := Resolve(HighestConfidence)
	sel, ok := selector.Select(Context{Predictions: []*models.PredictionRecord{
		record("a", "Hawks", 80, models.PredictionStatusWon),
		record("b", "Eagles", 80, models.PredictionStatusLost),
	}})
	if !ok {
		t.Fatal("expected a selection")
	}
	if sel.Prediction.AlgorithmID != "a" {
		t.Errorf("tie must keep the first prediction found, got %s", sel.Prediction.AlgorithmID)
	}
}

func TestHighestConfidenceEmptyInput(t *testing.T) {
	selector, _ := Resolve(HighestConfidence)
	if _, ok := selector.Select(Context{}); ok {
		t.Fatal("expected no selection for an empty match")
	}
}

func TestBestPerformerUsesWinRateTable(t *testing.T) {
	history := []*models.PredictionRecord{
		record("a", "x", 50, models.PredictionStatusWon),
		record("a", "x", 50, models.PredictionStatusLost),
		record("b", "x", 50, models.PredictionStatusWon),
		record("b", "x", 50, models.PredictionStatusWon),
	}
	table := BuildPerformanceTable(history)

	selector, _ := Resolve(BestPerformer)
	sel, ok := selector.Select(Context{
		Predictions: []*models.PredictionRecord{
			record("a", "Hawks", 90, models.PredictionStatusWon),
			record("b", "Eagles", 55, models.PredictionStatusLost),
		},
		Performance: table,
	})
	if !ok {
		t.Fatal("expected a selection")
	}
	if sel.Prediction.AlgorithmID != "b" {
		t.Errorf("expected the stronger historical performer, got %s", sel.Prediction.AlgorithmID)
	}
}

func TestBestPerformerTieKeepsFirst(t *testing.T) {
	selector, _ := Resolve(BestPerformer)
	sel, ok := selector.Select(Context{
		Predictions: []*models.PredictionRecord{
			record("a", "Hawks", 60, models.PredictionStatusWon),
			record("b", "Eagles", 70, models.PredictionStatusLost),
		},
		Performance: PerformanceTable{},
	})
	if !ok {
		t.Fatal("expected a selection")
	}
	if sel.Prediction.AlgorithmID != "a" {
		t.Errorf("tie on win rate must keep the first algorithm, got %s", sel.Prediction.AlgorithmID)
	}
}

func TestBuildPerformanceTableIgnoresPending(t *testing.T) {
	table := BuildPerformanceTable([]*models.PredictionRecord{
		record("a", "x", 50, models.PredictionStatusWon),
		record("a", "x", 50, models.PredictionStatusPending),
		record("a", "x", 50, models.PredictionStatusLost),
	})
	perf := table["a"]
	if perf.Wins+perf.Losses != 2 {
		t.Errorf("expected 2 settled predictions, got %d", perf.Wins+perf.Losses)
	}
	if rate := table.WinRate("a"); rate != 0.5 {
		t.Errorf("expected win rate 0.5, got %v", rate)
	}
}

func TestWinRateUnknownAlgorithm(t *testing.T) {
	table := PerformanceTable{}
	if rate := table.WinRate("ghost"); rate != 0 {
		t.Errorf("expected 0 for unknown algorithm, got %v", rate)
	}
}
