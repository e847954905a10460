// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hindsight/internal/backtest"
	"github.com/yourusername/hindsight/internal/config"
	"github.com/yourusername/hindsight/internal/database"
	"github.com/yourusername/hindsight/internal/datasource"
	"github.com/yourusername/hindsight/internal/logger"
	"github.com/yourusername/hindsight/internal/metrics"
	"github.com/yourusername/hindsight/internal/repository"
)

func main() {
	var (
		configPath    = flag.String("config", "config/config.yaml", "Path to config file")
		strategyName  = flag.String("strategy", "", "Strategy name to test")
		startDate     = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate       = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		days          = flag.Int("days", 0, "Lookback window in days when no explicit range is set")
		league        = flag.String("league", "", "Restrict the run to one league")
		stakeType     = flag.String("stake-type", "", "Staking mode: flat, percentage, kelly")
		stakeAmount   = flag.Float64("stake-amount", 0, "Stake amount (dollars, percent, or kelly multiplier)")
		minConfidence = flag.Float64("min-confidence", -1, "Minimum confidence threshold (0-100)")
		monteCarlo    = flag.Bool("monte-carlo", false, "Run Monte Carlo resampling on the backtest bets")
		simulations   = flag.Int("simulations", 0, "Monte Carlo simulation count")
		seed          = flag.Int64("seed", 0, "Monte Carlo RNG seed (0 uses the clock)")
		output        = flag.String("output", "", "Optional JSON output path for results")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	simCfg, err := backtest.FromConfig(&cfg.Simulation)
	if err != nil {
		log.Fatalf("Invalid simulation config: %v", err)
	}
	applyOverrides(&simCfg, *strategyName, *startDate, *endDate, *days, *league, *stakeType, *stakeAmount, *minConfidence, log)

	ctx := context.Background()
	engine, db := buildEngine(ctx, cfg, log)
	defer db.Close()

	log.WithFields(logrus.Fields{
		"strategy":   simCfg.Strategy,
		"stake_type": simCfg.StakeType,
	}).Info("Starting backtest")

	result, err := engine.Run(ctx, simCfg)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	fmt.Print(backtest.GenerateConsoleReport(result))

	if *monteCarlo {
		mcCfg := backtest.MonteCarloConfig{
			Simulations:      cfg.MonteCarlo.Simulations,
			Seed:             cfg.MonteCarlo.Seed,
			PathSteps:        cfg.MonteCarlo.PathSteps,
			StartingBankroll: simCfg.StartingBankroll,
			Stake:            simCfg.Sizer(),
		}
		if *simulations > 0 {
			mcCfg.Simulations = *simulations
		}
		if *seed != 0 {
			mcCfg.Seed = *seed
		}

		mc, err := backtest.RunMonteCarlo(ctx, result.Bets, mcCfg)
		if err != nil {
			log.Fatalf("Monte Carlo failed: %v", err)
		}
		fmt.Print(backtest.GenerateMonteCarloReport(mc))
	}

	if *output != "" {
		if err := backtest.ExportJSON(result, *output); err != nil {
			log.Fatalf("Failed to export results: %v", err)
		}
		log.WithField("path", *output).Info("Results exported")
	}
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logrus.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logrus.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(
	simCfg *backtest.SimulationConfig,
	strategyName, startDate, endDate string,
	days int,
	league, stakeType string,
	stakeAmount, minConfidence float64,
	log *logrus.Logger,
) {
	if strategyName != "" {
		simCfg.Strategy = strategyName
	}
	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			log.Fatalf("Invalid start date: %v", err)
		}
		simCfg.StartDate = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			log.Fatalf("Invalid end date: %v", err)
		}
		simCfg.EndDate = parsed
	}
	if days > 0 {
		simCfg.Days = days
	}
	if league != "" {
		simCfg.League = league
	}
	if stakeType != "" {
		simCfg.StakeType = backtest.StakeType(stakeType)
	}
	if stakeAmount > 0 {
		simCfg.StakeAmount = stakeAmount
	}
	if minConfidence >= 0 {
		simCfg.MinConfidence = minConfidence
	}
	if err := simCfg.Validate(); err != nil {
		log.Fatalf("Invalid simulation config: %v", err)
	}
}

func buildEngine(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*backtest.Engine, *database.DB) {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	repos, err := repository.NewRepositories(db, time.Duration(cfg.Database.CacheTTLSeconds)*time.Second)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	prediction := repos.Prediction
	if cfg.Feed.Enabled {
		feed := datasource.NewPredictionFeedFromConfig(&cfg.Feed, log)
		prediction = repository.NewFeedFallbackRepository(prediction, feed, log)
		log.WithField("base_url", cfg.Feed.BaseURL).Info("Prediction feed backfill enabled")
	}
	engine, err := backtest.NewEngine(prediction, log)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	return engine, db
}
