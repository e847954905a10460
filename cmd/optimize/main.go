// Package main provides the entry point for the strategy optimization CLI tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hindsight/internal/backtest"
	"github.com/yourusername/hindsight/internal/config"
	"github.com/yourusername/hindsight/internal/database"
	"github.com/yourusername/hindsight/internal/datasource"
	"github.com/yourusername/hindsight/internal/health"
	"github.com/yourusername/hindsight/internal/logger"
	"github.com/yourusername/hindsight/internal/metrics"
	"github.com/yourusername/hindsight/internal/repository"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	outputPath string
	appLogger  *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Optional JSON output path for the sweep report")
}

var rootCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Sweep strategy, confidence and staking combinations",
	Long:  `Runs a brute-force backtest sweep over every strategy, confidence threshold and staking scheme combination and ranks the results by ROI.`,
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
		return runSweep()
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

func runSweep() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer db.Close()

	if cfg.Metrics.Enabled {
		healthServer := health.NewServer(health.Config{
			ServiceName:    "hindsight-optimize",
			Version:        Version,
			Port:           strconv.Itoa(cfg.Metrics.Port),
			MetricsPath:    cfg.Metrics.Path,
			MetricsHandler: metrics.Handler(),
			Logger:         appLogger,
			DB:             db,
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		healthServer.SetReady(true)
	}

	engine, err := backtest.NewEngine(repos.Prediction, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	optimizer, err := backtest.NewOptimizer(engine, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create optimizer: %w", err)
	}

	base, err := backtest.FromConfig(&cfg.Simulation)
	if err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}

	strategies := cfg.Optimizer.Strategies
	if len(strategies) == 0 {
		strategies = []string{base.Strategy}
	}

	stakeTypes := make([]backtest.StakeType, 0, len(cfg.Optimizer.StakeTypes))
	for _, st := range cfg.Optimizer.StakeTypes {
		stakeTypes = append(stakeTypes, backtest.StakeType(st))
	}

	report, err := optimizer.Run(ctx, backtest.OptimizerConfig{
		Strategies:       strategies,
		ConfidenceMin:    cfg.Optimizer.ConfidenceMin,
		ConfidenceMax:    cfg.Optimizer.ConfidenceMax,
		ConfidenceStep:   cfg.Optimizer.ConfidenceStep,
		StakeTypes:       stakeTypes,
		KellyMultipliers: cfg.Optimizer.KellyMultipliers,
		Base:             base,
	})
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	best := report.Best
	appLogger.WithFields(logrus.Fields{
		"combinations": report.Combinations,
		"strategy":     best.Strategy,
		"confidence":   best.MinConfidence,
		"stake_type":   best.StakeType,
		"roi":          fmt.Sprintf("%.2f%%", best.ROI),
	}).Info("Sweep complete")

	if outputPath != "" {
		if err := backtest.ExportJSON(report, outputPath); err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
		appLogger.WithField("path", outputPath).Info("Report exported")
	}

	return nil
}
