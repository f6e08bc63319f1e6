package outcome

import (
	"time"

	"github.com/google/uuid"
)

// Access levels gate which staff tier a measure is intended for.
const (
	AccessLevelAdmin     = "admin"
	AccessLevelClinician = "clinician"
	AccessLevelBilling   = "billing"
)

// Sharable flags mark a measure as broadly discoverable regardless of tier.
const (
	SharableYes = "sharable"
	SharableNo  = "not_sharable"
)

// Question types supported by the measure content schema.
const (
	QuestionSingleChoice   = "single_choice"
	QuestionMultipleChoice = "multiple_choice"
	QuestionScale          = "scale"
)

// DefaultClassification is stored when no scoring criterion matches a total.
const DefaultClassification = "Unknown"

// Measure maps to the outcome_measure table. A measure is a reusable
// questionnaire template with scored options and score-range classifications,
// owned by its creator.
type Measure struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	Sharable    string         `db:"sharable" json:"sharable"`
	AccessLevel string         `db:"access_level" json:"access_level"`
	Content     MeasureContent `db:"content" json:"content"`
	CreatorID   uuid.UUID      `db:"creator_id" json:"creator_id"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// MeasureContent is the JSONB document holding the questionnaire definition.
// Field names follow the document schema produced by the front end, not the
// table column convention.
type MeasureContent struct {
	Questions       []Question         `json:"questions"`
	ScoringCriteria []ScoringCriterion `json:"scoringCriteria"`
}

// Question is a single item within a measure.
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        string       `json:"type"`
	Options     []Option     `json:"options"`
	Required    bool         `json:"required"`
	ScaleConfig *ScaleConfig `json:"scaleConfig,omitempty"`
}

// IsChoice reports whether the question carries selectable options.
func (q *Question) IsChoice() bool {
	return q.Type == QuestionSingleChoice || q.Type == QuestionMultipleChoice
}

// Option is a selectable choice within a question. Score uses a pointer so a
// document that omits the score entirely can be told apart from a zero score.
type Option struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Score *float64 `json:"score"`
}

// ScaleConfig describes the numeric range of a scale question.
type ScaleConfig struct {
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	Step     int     `json:"step"`
	MinLabel *string `json:"minLabel,omitempty"`
	MaxLabel *string `json:"maxLabel,omitempty"`
}

// ScoringCriterion classifies a total score falling inside [MinScore, MaxScore]
// (both bounds inclusive). Bounds use pointers for the same reason as
// Option.Score.
type ScoringCriterion struct {
	ID          string   `json:"id"`
	MinScore    *float64 `json:"minScore"`
	MaxScore    *float64 `json:"maxScore"`
	Label       string   `json:"label"`
	Description *string  `json:"description,omitempty"`
	Color       *string  `json:"color,omitempty"`
}

// Answer is one answered question inside a submitted response.
type Answer struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
	Score             float64  `json:"score"`
}

// MeasureResponse maps to the measure_response table. At most one response
// exists per client file; resubmission overwrites the stored row.
type MeasureResponse struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ClientFileID   uuid.UUID `db:"client_file_id" json:"client_file_id"`
	Answers        []Answer  `db:"answers" json:"answers"`
	TotalScore     float64   `db:"total_score" json:"total_score"`
	Classification string    `db:"classification" json:"classification"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Requester is the identity attributes the engine needs to authorize an
// operation: the active staff roles, whether any staff profile exists, and
// the linked client record if the user is a client.
type Requester struct {
	ID           uuid.UUID
	Roles        []string
	StaffProfile bool
	ClientID     *uuid.UUID
}

// IsAdmin reports whether the requester holds the admin role.
func (r *Requester) IsAdmin() bool {
	return r.hasRole(AccessLevelAdmin)
}

func (r *Requester) hasRole(role string) bool {
	for _, have := range r.Roles {
		if have == role {
			return true
		}
	}
	return false
}

// ClientFileInfo is the slice of a client file the engine reads: who owns it
// and which measure it is linked to.
type ClientFileInfo struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	OutcomeMeasureID *uuid.UUID
	Status           string
}
