// Package strategy implements bet selection rules over competing algorithm
// predictions for a single match.
package strategy

import (
	"github.com/yourusername/hindsight/internal/models"
)

// Canonical strategy names. Any other name resolves to the per-algorithm
// selector for that algorithm.
const (
	AllAgree          = "all_agree"
	MajorityAgree     = "majority_agree"
	HighestConfidence = "highest_confidence"
	BestPerformer     = "best_performer"
)

// Selection is the outcome of applying a strategy to one match
type Selection struct {
	Prediction       *models.PredictionRecord
	AlgorithmsAgreed int
}

// Context provides a selector with one match's predictions plus the global
// algorithm performance table built before the simulation started.
type Context struct {
	Predictions []*models.PredictionRecord
	Performance PerformanceTable
}

// Selector picks at most one prediction to act on for a match
type Selector interface {
	Name() string
	Select(ctx Context) (Selection, bool)
}

// Resolve maps a strategy name to its selector. Unrecognized names are treated
// as per-algorithm strategies selecting that algorithm's prediction.
func Resolve(name string) (Selector, error) {
	if name == "" {
		return nil, models.ErrStrategyNameEmpty
	}
	switch name {
	case AllAgree:
		return &allAgreeSelector{}, nil
	case MajorityAgree:
		return &majorityAgreeSelector{}, nil
	case HighestConfidence:
		return &highestConfidenceSelector{}, nil
	case BestPerformer:
		return &bestPerformerSelector{}, nil
	default:
		return &singleAlgorithmSelector{algorithm: name}, nil
	}
}

// outcomeGroup is one set of predictions that picked the same literal outcome
type outcomeGroup struct {
	outcome     string
	predictions []*models.PredictionRecord
}

// groupByOutcome buckets predictions by their literal predicted outcome text,
// preserving first-found order so tie-breaks stay deterministic.
func groupByOutcome(predictions []*models.PredictionRecord) []outcomeGroup {
	index := make(map[string]int, len(predictions))
	groups := make([]outcomeGroup, 0, len(predictions))
	for _, p := range predictions {
		i, ok := index[p.Prediction]
		if !ok {
			index[p.Prediction] = len(groups)
			groups = append(groups, outcomeGroup{outcome: p.Prediction})
			i = len(groups) - 1
		}
		groups[i].predictions = append(groups[i].predictions, p)
	}
	return groups
}

func maxAgreement(groups []outcomeGroup) int {
	max := 0
	for _, g := range groups {
		if len(g.predictions) > max {
			max = len(g.predictions)
		}
	}
	return max
}

// largestGroup returns the first group of maximal size
func largestGroup(groups []outcomeGroup) outcomeGroup {
	best := outcomeGroup{}
	for _, g := range groups {
		if len(g.predictions) > len(best.predictions) {
			best = g
		}
	}
	return best
}

// highestConfidence returns the first prediction with the highest confidence
func highestConfidenceOf(predictions []*models.PredictionRecord) *models.PredictionRecord {
	var best *models.PredictionRecord
	for _, p := range predictions {
		if best == nil || p.Confidence > best.Confidence {
			best = p
		}
	}
	return best
}

// agreementFor returns the size of the outcome group containing the selection,
// defaulting to 1 when the selection is not found.
func agreementFor(groups []outcomeGroup, selected *models.PredictionRecord) int {
	if selected == nil {
		return 1
	}
	for _, g := range groups {
		if g.outcome == selected.Prediction {
			return len(g.predictions)
		}
	}
	return 1
}
