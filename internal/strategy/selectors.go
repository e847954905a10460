package strategy

// allAgreeSelector bets only when three or more algorithms unanimously pick
// the same outcome.
type allAgreeSelector struct{}

func (s *allAgreeSelector) Name() string { return AllAgree }

func (s *allAgreeSelector) Select(ctx Context) (Selection, bool) {
	if len(ctx.Predictions) < 3 {
		return Selection{}, false
	}
	groups := groupByOutcome(ctx.Predictions)
	if len(groups) != 1 {
		return Selection{}, false
	}
	pick := highestConfidenceOf(groups[0].predictions)
	return Selection{Prediction: pick, AlgorithmsAgreed: len(groups[0].predictions)}, true
}

// majorityAgreeSelector bets when at least two algorithms share an outcome,
// taking the highest-confidence member of the majority group.
type majorityAgreeSelector struct{}

func (s *majorityAgreeSelector) Name() string { return MajorityAgree }

func (s *majorityAgreeSelector) Select(ctx Context) (Selection, bool) {
	groups := groupByOutcome(ctx.Predictions)
	if maxAgreement(groups) < 2 {
		return Selection{}, false
	}
	majority := largestGroup(groups)
	pick := highestConfidenceOf(majority.predictions)
	return Selection{Prediction: pick, AlgorithmsAgreed: len(majority.predictions)}, true
}

// highestConfidenceSelector always takes the single most confident prediction
// across all algorithms.
type highestConfidenceSelector struct{}

func (s *highestConfidenceSelector) Name() string { return HighestConfidence }

func (s *highestConfidenceSelector) Select(ctx Context) (Selection, bool) {
	pick := highestConfidenceOf(ctx.Predictions)
	if pick == nil {
		return Selection{}, false
	}
	groups := groupByOutcome(ctx.Predictions)
	return Selection{Prediction: pick, AlgorithmsAgreed: agreementFor(groups, pick)}, true
}

// bestPerformerSelector takes the prediction from whichever algorithm present
// in the match has the best historical win rate.
type bestPerformerSelector struct{}

func (s *bestPerformerSelector) Name() string { return BestPerformer }

func (s *bestPerformerSelector) Select(ctx Context) (Selection, bool) {
	if len(ctx.Predictions) == 0 {
		return Selection{}, false
	}
	var pick = ctx.Predictions[0]
	bestRate := ctx.Performance.WinRate(pick.AlgorithmID)
	for _, p := range ctx.Predictions[1:] {
		// Strictly greater keeps the first algorithm found on ties.
		if rate := ctx.Performance.WinRate(p.AlgorithmID); rate > bestRate {
			bestRate = rate
			pick = p
		}
	}
	groups := groupByOutcome(ctx.Predictions)
	return Selection{Prediction: pick, AlgorithmsAgreed: agreementFor(groups, pick)}, true
}

// singleAlgorithmSelector takes the named algorithm's prediction when present
type singleAlgorithmSelector struct {
	algorithm string
}

func (s *singleAlgorithmSelector) Name() string { return s.algorithm }

func (s *singleAlgorithmSelector) Select(ctx Context) (Selection, bool) {
	for _, p := range ctx.Predictions {
		if p.AlgorithmID == s.algorithm {
			groups := groupByOutcome(ctx.Predictions)
			return Selection{Prediction: p, AlgorithmsAgreed: agreementFor(groups, p)}, true
		}
	}
	return Selection{}, false
}
