package outcome

import "testing"

func TestTotalScore_SumsSubmittedScores(t *testing.T) {
	answers := []Answer{
		{QuestionID: "q1", SelectedOptionIDs: []string{"o1"}, Score: 3},
		{QuestionID: "q2", SelectedOptionIDs: []string{"o2"}, Score: 4},
		{QuestionID: "q3", SelectedOptionIDs: []string{"o1", "o3"}, Score: 5},
	}
	if got := TotalScore(answers); got != 12 {
		t.Errorf("TotalScore = %v, want 12", got)
	}
}

func TestTotalScore_FractionalScores(t *testing.T) {
	answers := []Answer{
		{QuestionID: "q1", SelectedOptionIDs: []string{"o1"}, Score: 2.5},
		{QuestionID: "q2", SelectedOptionIDs: []string{"o2"}, Score: 5},
	}
	if got := TotalScore(answers); got != 7.5 {
		t.Errorf("TotalScore = %v, want 7.5", got)
	}
	criteria := []ScoringCriterion{
		{ID: "c1", MinScore: fptr(0), MaxScore: fptr(7), Label: "Low"},
		{ID: "c2", MinScore: fptr(7.5), MaxScore: fptr(15), Label: "High"},
	}
	if got := Classify(criteria, 7.5); got != "High" {
		t.Errorf("Classify(7.5) = %q, want High", got)
	}
}

func TestTotalScore_Empty(t *testing.T) {
	if got := TotalScore(nil); got != 0 {
		t.Errorf("TotalScore(nil) = %v, want 0", got)
	}
}

func TestClassify(t *testing.T) {
	criteria := []ScoringCriterion{
		{ID: "c1", MinScore: fptr(0), MaxScore: fptr(4), Label: "Low"},
		{ID: "c2", MinScore: fptr(5), MaxScore: fptr(9), Label: "Moderate"},
		{ID: "c3", MinScore: fptr(10), MaxScore: fptr(14), Label: "High"},
	}

	tests := []struct {
		total float64
		want  string
	}{
		{0, "Low"},
		{4, "Low"},
		{5, "Moderate"},
		{9, "Moderate"},
		{10, "High"},
		{14, "High"},
		{15, DefaultClassification},
		{-1, DefaultClassification},
	}
	for _, tt := range tests {
		if got := Classify(criteria, tt.total); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestClassify_OverlappingRangesFirstWins(t *testing.T) {
	criteria := []ScoringCriterion{
		{ID: "c1", MinScore: fptr(0), MaxScore: fptr(10), Label: "A"},
		{ID: "c2", MinScore: fptr(5), MaxScore: fptr(15), Label: "B"},
	}
	if got := Classify(criteria, 7); got != "A" {
		t.Errorf("Classify(7) = %q, want first matching criterion A", got)
	}
}

func TestClassify_StoredOrderNotSorted(t *testing.T) {
	// Ranges deliberately out of numeric order; the scan must not sort.
	criteria := []ScoringCriterion{
		{ID: "c1", MinScore: fptr(10), MaxScore: fptr(20), Label: "High"},
		{ID: "c2", MinScore: fptr(0), MaxScore: fptr(20), Label: "Wide"},
	}
	if got := Classify(criteria, 15); got != "High" {
		t.Errorf("Classify(15) = %q, want High", got)
	}
	if got := Classify(criteria, 5); got != "Wide" {
		t.Errorf("Classify(5) = %q, want Wide", got)
	}
}

func TestClassify_SkipsCriteriaWithMissingBounds(t *testing.T) {
	criteria := []ScoringCriterion{
		{ID: "c1", MinScore: nil, MaxScore: fptr(10), Label: "Broken"},
		{ID: "c2", MinScore: fptr(0), MaxScore: fptr(10), Label: "Whole"},
	}
	if got := Classify(criteria, 5); got != "Whole" {
		t.Errorf("Classify(5) = %q, want Whole", got)
	}
}

func TestClassify_NoCriteria(t *testing.T) {
	if got := Classify(nil, 5); got != DefaultClassification {
		t.Errorf("Classify with no criteria = %q, want %q", got, DefaultClassification)
	}
}
