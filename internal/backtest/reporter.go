package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/hindsight/internal/models"
)

// GenerateConsoleReport formats a backtest result for terminal output
func GenerateConsoleReport(result *models.BacktestResult) string {
	if result == nil {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Strategy: %s\n", result.Strategy))
	builder.WriteString(fmt.Sprintf("Total Bets: %d (%d-%d)\n", result.TotalBets, result.Wins, result.Losses))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", result.WinRate))
	builder.WriteString(fmt.Sprintf("Total Profit: %.2f\n", result.TotalProfit))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", result.ROI))
	builder.WriteString(fmt.Sprintf("Final Bankroll: %.2f\n", result.FinalBankroll))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f (%.2f%%)\n", result.MaxDrawdown, result.MaxDrawdownPct))
	builder.WriteString(fmt.Sprintf("Longest Streaks: W%d / L%d\n", result.LongestWinStreak, result.LongestLoseStreak))
	if result.Filters.SkippedTotal > 0 {
		builder.WriteString(fmt.Sprintf("Filtered Out: %d\n", result.Filters.SkippedTotal))
	}
	return builder.String()
}

// GenerateMonteCarloReport formats a resampling result for terminal output
func GenerateMonteCarloReport(result models.MonteCarloResult) string {
	var builder strings.Builder
	builder.WriteString("Monte Carlo Report\n")
	builder.WriteString("==================\n")
	builder.WriteString(fmt.Sprintf("Simulations: %d\n", result.Simulations))
	builder.WriteString(fmt.Sprintf("Median Bankroll: %.2f (p5 %.2f, p95 %.2f)\n",
		result.BankrollPercentiles.P50, result.BankrollPercentiles.P5, result.BankrollPercentiles.P95))
	builder.WriteString(fmt.Sprintf("Profit Probability: %.1f%%\n", result.ProfitProbability*100))
	builder.WriteString(fmt.Sprintf("Bust Probability: %.1f%%\n", result.BustProbability*100))
	builder.WriteString(fmt.Sprintf("Avg Drawdown: %.2f%%\n", result.AvgDrawdownPct))
	return builder.String()
}

// ExportJSON writes any result aggregate as indented JSON
func ExportJSON(v any, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}
