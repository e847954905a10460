package backtest

import (
	"strings"
	"time"

	"github.com/yourusername/hindsight/internal/models"
	"github.com/yourusername/hindsight/internal/strategy"
)

// SideFilter restricts bets to home or away picks
type SideFilter string

const (
	SideAny  SideFilter = ""
	SideHome SideFilter = "home"
	SideAway SideFilter = "away"
)

// Filter names reported in FilterReport
const (
	FilterHomeAway       = "home_away"
	FilterMinAlgorithms  = "min_algorithms"
	FilterSharpMoney     = "sharp_money"
	FilterBackToBack     = "back_to_back"
	FilterConferenceOnly = "conference_only"
)

// backToBackWindow is the gap under which two games count as back-to-back
const backToBackWindow = 24 * time.Hour

// conferenceHashThreshold classifies matches whose match_id char sum modulo
// 100 is below it as conference games. Simulated classification, no real
// schedule data backs it.
const conferenceHashThreshold = 40

// SituationalFilters are independently toggleable gates applied after a
// strategy selects a bet. A failing filter drops the bet; never an error.
type SituationalFilters struct {
	HomeAway              SideFilter
	MinAlgorithmsAgreeing int
	SharpMoneyOnly        bool
	ExcludeBackToBack     bool
	ConferenceOnly        bool
}

// Active lists the names of enabled filters
func (f SituationalFilters) Active() []string {
	var names []string
	if f.HomeAway != SideAny {
		names = append(names, FilterHomeAway)
	}
	if f.MinAlgorithmsAgreeing > 1 {
		names = append(names, FilterMinAlgorithms)
	}
	if f.SharpMoneyOnly {
		names = append(names, FilterSharpMoney)
	}
	if f.ExcludeBackToBack {
		names = append(names, FilterBackToBack)
	}
	if f.ConferenceOnly {
		names = append(names, FilterConferenceOnly)
	}
	return names
}

// matchInfo is the schedule view of one candidate match
type matchInfo struct {
	ID       string
	HomeTeam string
	AwayTeam string
	Start    time.Time
}

// Evaluate applies every enabled filter in order. It returns the name of the
// first failing filter, or ok when the selection survives all of them.
func (f SituationalFilters) Evaluate(sel strategy.Selection, match matchInfo, schedule []matchInfo) (string, bool) {
	if f.HomeAway != SideAny {
		if ClassifySide(sel.Prediction) != f.HomeAway {
			return FilterHomeAway, false
		}
	}
	if f.MinAlgorithmsAgreeing > 1 && sel.AlgorithmsAgreed < f.MinAlgorithmsAgreeing {
		return FilterMinAlgorithms, false
	}
	if f.SharpMoneyOnly && !sharpMoneyAligned(sel) {
		return FilterSharpMoney, false
	}
	if f.ExcludeBackToBack && hasBackToBack(match, schedule) {
		return FilterBackToBack, false
	}
	if f.ConferenceOnly && !IsConferenceGame(match.ID) {
		return FilterConferenceOnly, false
	}
	return "", true
}

// ClassifySide classifies a prediction as a home or away pick from its text,
// falling back to matching the team names. Returns SideAny when the pick is
// unclassifiable, which fails an enabled side filter.
func ClassifySide(p *models.PredictionRecord) SideFilter {
	if p == nil {
		return SideAny
	}
	text := strings.ToLower(p.Prediction)
	switch {
	case strings.Contains(text, "home"):
		return SideHome
	case strings.Contains(text, "away"):
		return SideAway
	case p.PicksTeam(p.HomeTeam):
		return SideHome
	case p.PicksTeam(p.AwayTeam):
		return SideAway
	}
	return SideAny
}

// sharpMoneyAligned is a heuristic proxy for sharp-side agreement: at least
// two algorithms on the pick and confidence of 65 or better. No real market
// data backs it.
func sharpMoneyAligned(sel strategy.Selection) bool {
	if sel.Prediction == nil {
		return false
	}
	return sel.AlgorithmsAgreed >= 2 && sel.Prediction.Confidence >= 65
}

// hasBackToBack reports whether any other candidate match shares a team with
// this one and starts within 24 hours of it.
func hasBackToBack(match matchInfo, schedule []matchInfo) bool {
	for _, other := range schedule {
		if other.ID == match.ID {
			continue
		}
		gap := other.Start.Sub(match.Start)
		if gap < 0 {
			gap = -gap
		}
		if gap > backToBackWindow {
			continue
		}
		if sharesTeam(match, other) {
			return true
		}
	}
	return false
}

func sharesTeam(a, b matchInfo) bool {
	teams := map[string]bool{}
	for _, t := range []string{a.HomeTeam, a.AwayTeam} {
		if t != "" {
			teams[t] = true
		}
	}
	return teams[b.HomeTeam] || teams[b.AwayTeam]
}

// IsConferenceGame derives a deterministic pseudo-classification from the
// match ID. Callers must not treat it as ground truth.
func IsConferenceGame(matchID string) bool {
	sum := 0
	for _, c := range matchID {
		sum += int(c)
	}
	return sum%100 < conferenceHashThreshold
}
