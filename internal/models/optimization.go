package models

// OptimizationRow is the outcome of one (strategy, confidence, stake) combination
type OptimizationRow struct {
	Strategy       string  `json:"strategy"`
	MinConfidence  float64 `json:"min_confidence"`
	StakeType      string  `json:"stake_type"`
	StakeAmount    float64 `json:"stake_amount"`
	ROI            float64 `json:"roi"`
	WinRate        float64 `json:"win_rate"`
	TotalBets      int     `json:"total_bets"`
	TotalProfit    float64 `json:"total_profit"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
}

// HeatmapCell is the flattened projection of one sweep combination for charting
type HeatmapCell struct {
	Strategy      string  `json:"strategy"`
	MinConfidence float64 `json:"min_confidence"`
	StakeType     string  `json:"stake_type"`
	ROI           float64 `json:"roi"`
	Profit        float64 `json:"profit"`
	WinRate       float64 `json:"win_rate"`
}

// OptimizationReport is the full output of a parameter sweep, rows sorted
// descending by ROI with Best aliasing the top row.
type OptimizationReport struct {
	Rows         []OptimizationRow `json:"rows"`
	Best         *OptimizationRow  `json:"best"`
	Heatmap      []HeatmapCell     `json:"heatmap"`
	Combinations int               `json:"combinations"`
}

// StrategyComparison pairs one strategy's replay with its resampled risk profile
type StrategyComparison struct {
	Strategy   string           `json:"strategy"`
	Backtest   *BacktestResult  `json:"backtest"`
	MonteCarlo MonteCarloResult `json:"monte_carlo"`
}
