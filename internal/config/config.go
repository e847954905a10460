// Package config provides configuration management for the Hindsight engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Feed       FeedConfig       `mapstructure:"feed"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	MonteCarlo MonteCarloConfig `mapstructure:"monte_carlo"`
	Optimizer  OptimizerConfig  `mapstructure:"optimizer"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents prediction store connection configuration
type DatabaseConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name            string `mapstructure:"name" validate:"required"`
	User            string `mapstructure:"user" validate:"required"`
	Password        string `mapstructure:"password" validate:"required"`
	SSLMode         string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections  int    `mapstructure:"max_connections" validate:"required,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// FeedConfig represents the optional HTTP prediction feed
type FeedConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// SituationalFilterConfig toggles the optional secondary bet gates
type SituationalFilterConfig struct {
	HomeAway              string `mapstructure:"home_away" validate:"omitempty,oneof=home away"`
	MinAlgorithmsAgreeing int    `mapstructure:"min_algorithms_agreeing" validate:"gte=0"`
	SharpMoneyOnly        bool   `mapstructure:"sharp_money_only"`
	ExcludeBackToBack     bool   `mapstructure:"exclude_back_to_back"`
	ConferenceOnly        bool   `mapstructure:"conference_only"`
}

// SimulationConfig represents default backtest run settings
type SimulationConfig struct {
	Strategy         string                  `mapstructure:"strategy" validate:"required"`
	StartingBankroll float64                 `mapstructure:"starting_bankroll" validate:"required,gt=0"`
	StakeType        string                  `mapstructure:"stake_type" validate:"required,staketype"`
	StakeAmount      float64                 `mapstructure:"stake_amount" validate:"required,gt=0"`
	MinConfidence    float64                 `mapstructure:"min_confidence" validate:"gte=0,lte=100"`
	StartDate        string                  `mapstructure:"start_date" validate:"omitempty,dateformat"`
	EndDate          string                  `mapstructure:"end_date" validate:"omitempty,dateformat"`
	Days             int                     `mapstructure:"days" validate:"gte=0"`
	League           string                  `mapstructure:"league"`
	Filters          SituationalFilterConfig `mapstructure:"filters"`
}

// MonteCarloConfig represents resampling settings
type MonteCarloConfig struct {
	Simulations int   `mapstructure:"simulations" validate:"gte=0"`
	PathSteps   int   `mapstructure:"path_steps" validate:"gte=0,lte=50"`
	Seed        int64 `mapstructure:"seed"`
}

// OptimizerConfig represents parameter sweep settings
type OptimizerConfig struct {
	Strategies       []string  `mapstructure:"strategies"`
	ConfidenceMin    float64   `mapstructure:"confidence_min" validate:"gte=0,lte=100"`
	ConfidenceMax    float64   `mapstructure:"confidence_max" validate:"gte=0,lte=100"`
	ConfidenceStep   float64   `mapstructure:"confidence_step" validate:"gte=0"`
	StakeTypes       []string  `mapstructure:"stake_types" validate:"dive,staketype"`
	KellyMultipliers []float64 `mapstructure:"kelly_multipliers" validate:"dive,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
