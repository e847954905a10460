package models

import (
	"fmt"
	"strings"
	"time"
)

// PredictionStatus represents the settlement state of a prediction
type PredictionStatus string

const (
	PredictionStatusWon     PredictionStatus = "won"
	PredictionStatusLost    PredictionStatus = "lost"
	PredictionStatusPending PredictionStatus = "pending"
)

// PredictionRecord represents a settled prediction made by one algorithm for one match
type PredictionRecord struct {
	MatchID            string           `db:"match_id" json:"match_id" validate:"required"`
	AlgorithmID        string           `db:"algorithm_id" json:"algorithm_id" validate:"required"`
	Prediction         string           `db:"prediction" json:"prediction" validate:"required"`
	Confidence         float64          `db:"confidence" json:"confidence" validate:"gte=0,lte=100"`
	Status             PredictionStatus `db:"status" json:"status" validate:"required,oneof=won lost pending"`
	PredictedAt        time.Time        `db:"predicted_at" json:"predicted_at" validate:"required"`
	League             string           `db:"league" json:"league"`
	HomeTeam           string           `db:"home_team" json:"home_team"`
	AwayTeam           string           `db:"away_team" json:"away_team"`
	HomeScore          *int             `db:"home_score" json:"home_score"`
	AwayScore          *int             `db:"away_score" json:"away_score"`
	ProjectedHomeScore *float64         `db:"projected_home_score" json:"projected_home_score"`
	ProjectedAwayScore *float64         `db:"projected_away_score" json:"projected_away_score"`
}

// IsSettled reports whether the prediction has a known outcome
func (p *PredictionRecord) IsSettled() bool {
	return p.Status == PredictionStatusWon || p.Status == PredictionStatusLost
}

// Won reports whether the prediction settled as a winner
func (p *PredictionRecord) Won() bool {
	return p.Status == PredictionStatusWon
}

// MatchTitle returns a display title for the match
func (p *PredictionRecord) MatchTitle() string {
	if p.HomeTeam == "" && p.AwayTeam == "" {
		return p.MatchID
	}
	return fmt.Sprintf("%s @ %s", p.AwayTeam, p.HomeTeam)
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p *PredictionRecord) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}

// PicksTeam reports whether the prediction text names the given team, either
// as a substring or by the team name's trailing word.
func (p *PredictionRecord) PicksTeam(team string) bool {
	if team == "" {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(p.Prediction))
	name := strings.ToLower(team)
	if strings.Contains(text, name) {
		return true
	}
	words := strings.Fields(name)
	if len(words) == 0 {
		return false
	}
	return strings.HasSuffix(text, words[len(words)-1])
}
