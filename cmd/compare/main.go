// Package main provides the entry point for the strategy comparison CLI tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hindsight/internal/backtest"
	"github.com/yourusername/hindsight/internal/config"
	"github.com/yourusername/hindsight/internal/database"
	"github.com/yourusername/hindsight/internal/datasource"
	"github.com/yourusername/hindsight/internal/logger"
	"github.com/yourusername/hindsight/internal/metrics"
	"github.com/yourusername/hindsight/internal/repository"
	"github.com/yourusername/hindsight/internal/strategy"
)

var (
	configFile string
	outputPath string
	names      []string
	appLogger  *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringSliceVarP(&names, "strategies", "s", nil, "Strategies to compare (defaults to the built-in set)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Optional JSON output path for the comparison")
}

var rootCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare betting strategies head to head",
	Long:  `Backtests each strategy over the same prediction set, runs Monte Carlo resampling on every result, and ranks strategies by realized profit.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runComparison()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	return config.Validate(cfg)
}

func setupDependencies() error {
	appLogger = logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	ctx := context.Background()
	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db, time.Duration(cfg.Database.CacheTTLSeconds)*time.Second)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	if cfg.Feed.Enabled {
		feed := datasource.NewPredictionFeedFromConfig(&cfg.Feed, appLogger)
		repos.Prediction = repository.NewFeedFallbackRepository(repos.Prediction, feed, appLogger)
		appLogger.WithField("base_url", cfg.Feed.BaseURL).Info("Prediction feed backfill enabled")
	}

	return nil
}

func runComparison() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer db.Close()

	engine, err := backtest.NewEngine(repos.Prediction, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	comparator, err := backtest.NewComparator(engine, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create comparator: %w", err)
	}

	base, err := backtest.FromConfig(&cfg.Simulation)
	if err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}

	strategies := names
	if len(strategies) == 0 {
		strategies = []string{
			strategy.AllAgree,
			strategy.MajorityAgree,
			strategy.HighestConfidence,
			strategy.BestPerformer,
		}
	}

	comparisons, err := comparator.Run(ctx, backtest.ComparatorConfig{
		Strategies:  strategies,
		Base:        base,
		Simulations: cfg.MonteCarlo.Simulations,
		Seed:        cfg.MonteCarlo.Seed,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	for rank, comparison := range comparisons {
		appLogger.WithFields(logrus.Fields{
			"rank":      rank + 1,
			"strategy":  comparison.Strategy,
			"bets":      comparison.Backtest.TotalBets,
			"profit":    fmt.Sprintf("%.2f", comparison.Backtest.TotalProfit),
			"roi":       fmt.Sprintf("%.2f%%", comparison.Backtest.ROI),
			"bust_prob": fmt.Sprintf("%.2f%%", comparison.MonteCarlo.BustProbability*100),
		}).Info("Strategy ranked")
	}

	if outputPath != "" {
		if err := backtest.ExportJSON(comparisons, outputPath); err != nil {
			return fmt.Errorf("failed to export comparison: %w", err)
		}
		appLogger.WithField("path", outputPath).Info("Comparison exported")
	}

	return nil
}
