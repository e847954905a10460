package models

import (
	"time"

	"github.com/google/uuid"
)

// Fixed single-outcome market pricing. All simulated bets settle at standard
// American -110 odds.
const (
	StandardAmericanOdds = -110
	// WinPayoutRatio is the decimal profit per unit staked at -110
	WinPayoutRatio = 0.9091
	// ImpliedWinProbability is the break-even win probability at fair -110
	ImpliedWinProbability = 0.5238
)

// BetResult represents the settled outcome of a simulated bet
type BetResult string

const (
	BetResultWon  BetResult = "won"
	BetResultLost BetResult = "lost"
)

// Bet represents one simulated wager produced by a backtest replay.
// Immutable once created.
type Bet struct {
	ID               uuid.UUID `json:"id"`
	Date             time.Time `json:"date"`
	Match            string    `json:"match"`
	MatchID          string    `json:"match_id"`
	League           string    `json:"league"`
	Prediction       string    `json:"prediction"`
	Confidence       float64   `json:"confidence"`
	Stake            float64   `json:"stake" validate:"gt=0"`
	Odds             int       `json:"odds"`
	Result           BetResult `json:"result"`
	Profit           float64   `json:"profit"`
	BankrollAfter    float64   `json:"bankroll_after"`
	Strategy         string    `json:"strategy"`
	AlgorithmsAgreed int       `json:"algorithms_agreed"`
}

// Won reports whether the bet settled as a winner
func (b *Bet) Won() bool {
	return b.Result == BetResultWon
}

// ROI returns the bet's return on stake as a percentage
func (b *Bet) ROI() float64 {
	if b.Stake == 0 {
		return 0
	}
	return (b.Profit / b.Stake) * 100
}
