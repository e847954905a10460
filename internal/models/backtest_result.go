package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyProfit is one entry of the day-indexed profit series
type DailyProfit struct {
	Date             string  `json:"date"`
	Profit           float64 `json:"profit"`
	CumulativeProfit float64 `json:"cumulative_profit"`
	Bankroll         float64 `json:"bankroll"`
}

// DaySummary names a day and the profit it produced
type DaySummary struct {
	Date   string  `json:"date"`
	Profit float64 `json:"profit"`
}

// FilterReport records which situational filters were active during a run and
// how many candidate bets each one removed. Diagnostic only.
type FilterReport struct {
	Applied          []string       `json:"applied"`
	SkippedByFilters map[string]int `json:"skipped_by_filters"`
	SkippedTotal     int            `json:"skipped_total"`
}

// BacktestResult is the aggregate outcome of one chronological replay
type BacktestResult struct {
	ID                uuid.UUID     `json:"id"`
	Strategy          string        `json:"strategy"`
	TotalBets         int           `json:"total_bets"`
	Wins              int           `json:"wins"`
	Losses            int           `json:"losses"`
	WinRate           float64       `json:"win_rate"`
	TotalProfit       float64       `json:"total_profit"`
	TotalStaked       float64       `json:"total_staked"`
	ROI               float64       `json:"roi"`
	StartingBankroll  float64       `json:"starting_bankroll"`
	FinalBankroll     float64       `json:"final_bankroll"`
	MaxDrawdown       float64       `json:"max_drawdown"`
	MaxDrawdownPct    float64       `json:"max_drawdown_pct"`
	BestDay           DaySummary    `json:"best_day"`
	WorstDay          DaySummary    `json:"worst_day"`
	LongestWinStreak  int           `json:"longest_win_streak"`
	LongestLoseStreak int           `json:"longest_lose_streak"`
	AvgBetSize        float64       `json:"avg_bet_size"`
	ProfitByDay       []DailyProfit `json:"profit_by_day"`
	Bets              []Bet         `json:"bets"`
	Filters           FilterReport  `json:"filters"`
	GeneratedAt       time.Time     `json:"generated_at"`
}

// NetReturn returns total profit relative to the starting bankroll
func (r *BacktestResult) NetReturn() float64 {
	if r.StartingBankroll == 0 {
		return 0
	}
	return r.TotalProfit / r.StartingBankroll
}
