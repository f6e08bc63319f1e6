package clientfile

import (
	"time"

	"github.com/google/uuid"
)

// Client file statuses. A file moves to completedbyclient when the client
// submits the outcome response attached to it.
const (
	StatusDraft             = "draft"
	StatusAssigned          = "assigned"
	StatusCompletedByClient = "completedbyclient"
)

// ClientFile maps to the client_file table. A file is a unit of paperwork
// assigned to a client; when it carries an outcome measure link, the client
// completes the file by submitting a scored response.
type ClientFile struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	ClientID         uuid.UUID  `db:"client_id" json:"client_id"`
	Title            string     `db:"title" json:"title"`
	Status           string     `db:"status" json:"status"`
	OutcomeMeasureID *uuid.UUID `db:"outcome_measure_id" json:"outcome_measure_id,omitempty"`
	CompletedDate    *time.Time `db:"completed_date" json:"completed_date,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
