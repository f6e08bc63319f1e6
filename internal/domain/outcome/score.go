package outcome

// TotalScore sums the per-answer scores as submitted. Scores are taken from
// the payload, not recomputed from the measure's option definitions.
func TotalScore(answers []Answer) float64 {
	var total float64
	for _, a := range answers {
		total += a.Score
	}
	return total
}

// Classify returns the label of the first criterion, in stored array order,
// whose inclusive [min, max] range contains the total. Criteria are never
// sorted or deduplicated, so with overlapping ranges the earlier entry wins.
// Returns DefaultClassification when nothing matches.
func Classify(criteria []ScoringCriterion, total float64) string {
	for _, c := range criteria {
		if c.MinScore == nil || c.MaxScore == nil {
			continue
		}
		if total >= *c.MinScore && total <= *c.MaxScore {
			return c.Label
		}
	}
	return DefaultClassification
}
