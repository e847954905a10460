package strategy

import (
	"github.com/yourusername/hindsight/internal/models"
)

// AlgorithmPerformance summarizes one algorithm's historical record
type AlgorithmPerformance struct {
	AlgorithmID string  `json:"algorithm_id"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
}

// PerformanceTable maps algorithm ID to its historical win rate. Built once
// from the full settled set before a simulation begins.
type PerformanceTable map[string]AlgorithmPerformance

// BuildPerformanceTable computes per-algorithm win rates over settled records
func BuildPerformanceTable(records []*models.PredictionRecord) PerformanceTable {
	table := make(PerformanceTable)
	for _, r := range records {
		if !r.IsSettled() {
			continue
		}
		perf := table[r.AlgorithmID]
		perf.AlgorithmID = r.AlgorithmID
		if r.Won() {
			perf.Wins++
		} else {
			perf.Losses++
		}
		table[r.AlgorithmID] = perf
	}
	for id, perf := range table {
		total := perf.Wins + perf.Losses
		if total > 0 {
			perf.WinRate = float64(perf.Wins) / float64(total)
		}
		table[id] = perf
	}
	return table
}

// WinRate returns the historical win rate for an algorithm, 0 when unknown
func (t PerformanceTable) WinRate(algorithmID string) float64 {
	return t[algorithmID].WinRate
}
