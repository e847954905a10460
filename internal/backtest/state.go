package backtest

import (
	"github.com/yourusername/hindsight/internal/models"
)

// simState tracks a replay in progress
type simState struct {
	Bankroll       float64
	PeakBankroll   float64
	MaxDrawdown    float64
	MaxDrawdownPct float64

	WinStreak         int
	LoseStreak        int
	LongestWinStreak  int
	LongestLoseStreak int

	TotalStaked float64
	TotalProfit float64
	Wins        int
	Losses      int

	Bets       []models.Bet
	dayIndex   map[string]int
	dayProfits []dayBucket

	SkippedByFilters map[string]int
}

type dayBucket struct {
	date     string
	profit   float64
	bankroll float64
}

func newSimState(startingBankroll float64) *simState {
	return &simState{
		Bankroll:         startingBankroll,
		PeakBankroll:     startingBankroll,
		Bets:             []models.Bet{},
		dayIndex:         make(map[string]int),
		SkippedByFilters: make(map[string]int),
	}
}

// Settle applies a settled bet to the running state. The bet's Profit and
// BankrollAfter fields must already be populated.
func (s *simState) Settle(bet models.Bet) {
	s.Bankroll += bet.Profit
	if s.Bankroll > s.PeakBankroll {
		s.PeakBankroll = s.Bankroll
	}
	// Drawdown is measured against the running peak, never the start.
	// Absolute and percentage maxima are tracked independently; a small
	// early drawdown can be the worst in percentage terms while a later
	// one is the worst in absolute terms.
	dd := s.PeakBankroll - s.Bankroll
	if dd > s.MaxDrawdown {
		s.MaxDrawdown = dd
	}
	if s.PeakBankroll > 0 {
		if ddPct := dd / s.PeakBankroll * 100; ddPct > s.MaxDrawdownPct {
			s.MaxDrawdownPct = ddPct
		}
	}

	s.TotalStaked += bet.Stake
	s.TotalProfit += bet.Profit
	if bet.Won() {
		s.Wins++
		s.WinStreak++
		s.LoseStreak = 0
		if s.WinStreak > s.LongestWinStreak {
			s.LongestWinStreak = s.WinStreak
		}
	} else {
		s.Losses++
		s.LoseStreak++
		s.WinStreak = 0
		if s.LoseStreak > s.LongestLoseStreak {
			s.LongestLoseStreak = s.LoseStreak
		}
	}

	day := bet.Date.Format("2006-01-02")
	i, ok := s.dayIndex[day]
	if !ok {
		s.dayIndex[day] = len(s.dayProfits)
		s.dayProfits = append(s.dayProfits, dayBucket{date: day})
		i = len(s.dayProfits) - 1
	}
	s.dayProfits[i].profit += bet.Profit
	s.dayProfits[i].bankroll = s.Bankroll

	s.Bets = append(s.Bets, bet)
}

// Skip records a candidate bet removed by a situational filter
func (s *simState) Skip(filterName string) {
	s.SkippedByFilters[filterName]++
}

// ProfitByDay builds the chronological day-indexed profit series. Matches are
// replayed in time order, so bucket insertion order is already chronological.
func (s *simState) ProfitByDay() []models.DailyProfit {
	series := make([]models.DailyProfit, 0, len(s.dayProfits))
	cumulative := 0.0
	for _, b := range s.dayProfits {
		cumulative += b.profit
		series = append(series, models.DailyProfit{
			Date:             b.date,
			Profit:           b.profit,
			CumulativeProfit: cumulative,
			Bankroll:         b.bankroll,
		})
	}
	return series
}

// BestWorstDays returns the highest and lowest profit days, zero values when
// no bets settled.
func (s *simState) BestWorstDays() (models.DaySummary, models.DaySummary) {
	var best, worst models.DaySummary
	for i, b := range s.dayProfits {
		if i == 0 || b.profit > best.Profit {
			best = models.DaySummary{Date: b.date, Profit: b.profit}
		}
		if i == 0 || b.profit < worst.Profit {
			worst = models.DaySummary{Date: b.date, Profit: b.profit}
		}
	}
	return best, worst
}

// skippedTotal sums per-filter skip counts
func (s *simState) skippedTotal() int {
	total := 0
	for _, n := range s.SkippedByFilters {
		total += n
	}
	return total
}
