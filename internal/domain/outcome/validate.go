package outcome

import "fmt"

// validQuestionTypes is the closed set of question kinds the schema accepts.
var validQuestionTypes = map[string]bool{
	QuestionSingleChoice:   true,
	QuestionMultipleChoice: true,
	QuestionScale:          true,
}

// ValidateContent checks the structural integrity of measure content before
// it is stored. Rules run in a fixed order and the first violation wins; no
// error aggregation. Indexes in messages are 1-based.
//
// A nil Questions or ScoringCriteria slice means the document omitted the
// array entirely, which is distinct from an empty one.
func ValidateContent(content *MeasureContent) error {
	if content == nil || content.Questions == nil {
		return &ValidationError{Reason: "Content must have questions array"}
	}
	if content.ScoringCriteria == nil {
		return &ValidationError{Reason: "Content must have scoringCriteria array"}
	}
	if len(content.Questions) < 1 {
		return &ValidationError{Reason: "At least one question is required"}
	}
	if len(content.ScoringCriteria) < 1 {
		return &ValidationError{Reason: "At least one scoring criterion is required"}
	}

	for i := range content.Questions {
		if err := validateQuestion(&content.Questions[i], i+1); err != nil {
			return err
		}
	}

	for i, c := range content.ScoringCriteria {
		if c.ID == "" || c.Label == "" || c.MinScore == nil || c.MaxScore == nil {
			return &ValidationError{Reason: fmt.Sprintf("Scoring criterion %d is missing required fields", i+1)}
		}
		if *c.MinScore > *c.MaxScore {
			return &ValidationError{Reason: fmt.Sprintf("Scoring criterion %d has invalid score range", i+1)}
		}
	}

	return nil
}

func validateQuestion(q *Question, n int) error {
	if q.ID == "" || q.Text == "" || q.Type == "" || q.Options == nil {
		return &ValidationError{Reason: fmt.Sprintf("Question %d is missing required fields", n)}
	}
	if !validQuestionTypes[q.Type] {
		return &ValidationError{Reason: fmt.Sprintf("Question %d has invalid type", n)}
	}
	// Scale questions have no selectable options; everything else needs at
	// least one.
	if len(q.Options) == 0 && q.Type != QuestionScale {
		return &ValidationError{Reason: fmt.Sprintf("Question %d must have at least one option", n)}
	}
	for j, opt := range q.Options {
		if opt.ID == "" || opt.Text == "" || opt.Score == nil {
			return &ValidationError{Reason: fmt.Sprintf("Question %d, Option %d is missing required fields", n, j+1)}
		}
	}
	return nil
}
