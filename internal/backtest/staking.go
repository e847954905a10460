package backtest

import (
	"github.com/yourusername/hindsight/internal/models"
)

const (
	// kellyLossShare is 1 - ImpliedWinProbability at fair -110 odds
	kellyLossShare = 0.4762
	// kellyBankrollCap caps any kelly stake at a quarter of bankroll
	kellyBankrollCap = 0.25
)

// StakeSizer converts a selected bet and the current bankroll into a stake.
// The meaning of Amount depends on Type: a currency amount for flat, a
// percentage of bankroll for percentage, a kelly multiplier for kelly.
type StakeSizer struct {
	Type   StakeType
	Amount float64
}

// Stake returns the stake for a bet at the given confidence, or 0 when no bet
// should be placed. Never exceeds the bankroll.
func (s StakeSizer) Stake(bankroll, confidence float64) float64 {
	if bankroll <= 0 {
		return 0
	}

	var stake float64
	switch s.Type {
	case StakeFlat:
		stake = s.Amount
	case StakePercentage:
		stake = bankroll * s.Amount / 100
	case StakeKelly:
		edge := confidence/100 - models.ImpliedWinProbability
		if edge <= 0 {
			return 0
		}
		fraction := (edge / kellyLossShare) * (s.Amount / 100)
		stake = bankroll * fraction
		if limit := bankroll * kellyBankrollCap; stake > limit {
			stake = limit
		}
	default:
		return 0
	}

	if stake > bankroll {
		stake = bankroll
	}
	if stake <= 0 {
		return 0
	}
	return stake
}
