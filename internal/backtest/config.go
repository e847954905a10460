package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/hindsight/internal/config"
	"github.com/yourusername/hindsight/internal/models"
)

// StakeType selects the stake-sizing policy
type StakeType string

const (
	StakeFlat       StakeType = "flat"
	StakePercentage StakeType = "percentage"
	StakeKelly      StakeType = "kelly"
)

// SimulationConfig describes one backtest run
type SimulationConfig struct {
	Strategy         string
	StartingBankroll float64
	StakeType        StakeType
	StakeAmount      float64
	MinConfidence    float64
	StartDate        time.Time
	EndDate          time.Time
	Days             int
	League           string
	Filters          SituationalFilters
}

// FromConfig converts app config to a simulation config
func FromConfig(cfg *config.SimulationConfig) (SimulationConfig, error) {
	if cfg == nil {
		return SimulationConfig{}, fmt.Errorf("simulation config is required")
	}
	sim := SimulationConfig{
		Strategy:         cfg.Strategy,
		StartingBankroll: cfg.StartingBankroll,
		StakeType:        StakeType(cfg.StakeType),
		StakeAmount:      cfg.StakeAmount,
		MinConfidence:    cfg.MinConfidence,
		Days:             cfg.Days,
		League:           cfg.League,
		Filters: SituationalFilters{
			HomeAway:              SideFilter(cfg.Filters.HomeAway),
			MinAlgorithmsAgreeing: cfg.Filters.MinAlgorithmsAgreeing,
			SharpMoneyOnly:        cfg.Filters.SharpMoneyOnly,
			ExcludeBackToBack:     cfg.Filters.ExcludeBackToBack,
			ConferenceOnly:        cfg.Filters.ConferenceOnly,
		},
	}
	if cfg.StartDate != "" {
		start, err := time.Parse("2006-01-02", cfg.StartDate)
		if err != nil {
			return SimulationConfig{}, fmt.Errorf("invalid start date: %w", err)
		}
		sim.StartDate = start
	}
	if cfg.EndDate != "" {
		end, err := time.Parse("2006-01-02", cfg.EndDate)
		if err != nil {
			return SimulationConfig{}, fmt.Errorf("invalid end date: %w", err)
		}
		sim.EndDate = end
	}
	return sim, sim.Validate()
}

// Validate validates simulation config parameters
func (c SimulationConfig) Validate() error {
	if c.Strategy == "" {
		return fmt.Errorf("strategy is required")
	}
	if c.StartingBankroll <= 0 {
		return fmt.Errorf("starting bankroll must be positive")
	}
	switch c.StakeType {
	case StakeFlat, StakePercentage, StakeKelly:
	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidStakeType, c.StakeType)
	}
	if c.StakeAmount <= 0 {
		return fmt.Errorf("stake amount must be positive")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("min confidence must be between 0 and 100")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.StartDate.After(c.EndDate) {
		return fmt.Errorf("%w: start %s is after end %s", models.ErrInvalidDateRange,
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
	}
	if f := c.Filters.HomeAway; f != SideAny && f != SideHome && f != SideAway {
		return fmt.Errorf("unknown home/away filter %q", f)
	}
	return nil
}

// DateRange resolves the effective query window. A Days lookback takes effect
// only when no explicit range is set.
func (c SimulationConfig) DateRange(now time.Time) (time.Time, time.Time) {
	start, end := c.StartDate, c.EndDate
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		days := c.Days
		if days <= 0 {
			days = 30
		}
		start = end.AddDate(0, 0, -days)
	}
	return start, end
}

// Sizer returns the stake sizer for this run
func (c SimulationConfig) Sizer() StakeSizer {
	return StakeSizer{Type: c.StakeType, Amount: c.StakeAmount}
}
