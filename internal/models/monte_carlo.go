package models

// Percentiles holds the five distribution cut points reported by the resampler
type Percentiles struct {
	P5  float64 `json:"p5"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P95 float64 `json:"p95"`
}

// SimulationRun is the outcome of a single shuffled replay
type SimulationRun struct {
	FinalBankroll  float64 `json:"final_bankroll"`
	TotalProfit    float64 `json:"total_profit"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	Busted         bool    `json:"busted"`
}

// HistogramBucket is one bucket of an outcome distribution
type HistogramBucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// PathPoint is one sampled step of the bankroll percentile path
type PathPoint struct {
	Step     int         `json:"step"`
	Bankroll Percentiles `json:"bankroll"`
}

// MonteCarloResult aggregates N independent shuffled replays of a fixed bet list
type MonteCarloResult struct {
	Simulations         int               `json:"simulations"`
	Runs                []SimulationRun   `json:"runs"`
	BankrollPercentiles Percentiles       `json:"bankroll_percentiles"`
	ProfitPercentiles   Percentiles       `json:"profit_percentiles"`
	BustProbability     float64           `json:"bust_probability"`
	ProfitProbability   float64           `json:"profit_probability"`
	AvgFinalBankroll    float64           `json:"avg_final_bankroll"`
	AvgProfit           float64           `json:"avg_profit"`
	AvgDrawdownPct      float64           `json:"avg_drawdown_pct"`
	ProfitHistogram     []HistogramBucket `json:"profit_histogram"`
	DrawdownHistogram   []HistogramBucket `json:"drawdown_histogram"`
	BankrollPath        []PathPoint       `json:"bankroll_path"`
}
