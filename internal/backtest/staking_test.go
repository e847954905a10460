package backtest

import (
	"testing"
)

func TestFlatStake(t *testing.T) {
	sizer := StakeSizer{Type: StakeFlat, Amount: 100}
	if stake := sizer.Stake(1000, 60); stake != 100 {
		t.Errorf("expected flat 100, got %.2f", stake)
	}
}

func TestFlatStakeCappedAtBankroll(t *testing.T) {
	sizer := StakeSizer{Type: StakeFlat, Amount: 100}
	if stake := sizer.Stake(40, 60); stake != 40 {
		t.Errorf("flat stake must cap at the bankroll, got %.2f", stake)
	}
}

func TestPercentageStake(t *testing.T) {
	sizer := StakeSizer{Type: StakePercentage, Amount: 5}
	if stake := sizer.Stake(1000, 60); stake != 50 {
		t.Errorf("expected 5%% of 1000, got %.2f", stake)
	}
	if stake := sizer.Stake(200, 60); stake != 10 {
		t.Errorf("percentage stake must track the current bankroll, got %.2f", stake)
	}
}

func TestKellyStakeNoEdge(t *testing.T) {
	sizer := StakeSizer{Type: StakeKelly, Amount: 100}
	// At or below the implied break-even probability there is no edge.
	for _, confidence := range []float64{30, 50, 52} {
		if stake := sizer.Stake(1000, confidence); stake != 0 {
			t.Errorf("expected no bet at confidence %.2f, got %.2f", confidence, stake)
		}
	}
}

func TestKellyStakeWithEdge(t *testing.T) {
	sizer := StakeSizer{Type: StakeKelly, Amount: 50}
	// confidence 62: edge = 0.62 - 0.5238 = 0.0962
	// fraction = (0.0962 / 0.4762) * 0.5 = 0.1010...
	stake := sizer.Stake(1000, 62)
	if !almostEqual(stake, 101.01) {
		t.Errorf("expected kelly stake near 101.01, got %.2f", stake)
	}
}

func TestKellyStakeBankrollCap(t *testing.T) {
	sizer := StakeSizer{Type: StakeKelly, Amount: 200}
	// A huge multiplier on a strong edge must still cap at 25% of bankroll.
	if stake := sizer.Stake(1000, 95); stake != 250 {
		t.Errorf("expected the 25%% cap, got %.2f", stake)
	}
}

func TestStakeZeroOnEmptyBankroll(t *testing.T) {
	for _, st := range []StakeType{StakeFlat, StakePercentage, StakeKelly} {
		sizer := StakeSizer{Type: st, Amount: 100}
		if stake := sizer.Stake(0, 90); stake != 0 {
			t.Errorf("%s: expected no bet on an empty bankroll, got %.2f", st, stake)
		}
		if stake := sizer.Stake(-5, 90); stake != 0 {
			t.Errorf("%s: expected no bet on a negative bankroll, got %.2f", st, stake)
		}
	}
}

func TestStakeUnknownType(t *testing.T) {
	sizer := StakeSizer{Type: "martingale", Amount: 100}
	if stake := sizer.Stake(1000, 90); stake != 0 {
		t.Errorf("unknown stake type must never bet, got %.2f", stake)
	}
}
