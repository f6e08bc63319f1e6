package outcome

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no row matches. The service
// layer translates it into the typed NotFoundError for the boundary.
var ErrNotFound = errors.New("not found")

// MeasureRepository defines the persistence interface for outcome measures.
type MeasureRepository interface {
	Create(ctx context.Context, m *Measure) error
	GetByID(ctx context.Context, id uuid.UUID) (*Measure, error)
	Update(ctx context.Context, m *Measure) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByAccessLevels returns measures whose access level is in levels,
	// newest first.
	ListByAccessLevels(ctx context.Context, levels []string) ([]*Measure, error)
	// ListSharable returns every sharable measure regardless of access level.
	ListSharable(ctx context.Context) ([]*Measure, error)
}

// ResponseRepository defines the persistence interface for measure responses.
// The store enforces a uniqueness constraint on client_file_id.
type ResponseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*MeasureResponse, error)
	GetByClientFileID(ctx context.Context, clientFileID uuid.UUID) (*MeasureResponse, error)
	// UpsertByClientFile atomically inserts the response or, if a row already
	// exists for its client file, overwrites answers, total and
	// classification in place.
	UpsertByClientFile(ctx context.Context, r *MeasureResponse) error
}

// ClientFileStore is the slice of the client-file collaborator the engine
// consumes: resolve a file and record the completion side effect.
type ClientFileStore interface {
	GetFileInfo(ctx context.Context, id uuid.UUID) (*ClientFileInfo, error)
	MarkCompletedByClient(ctx context.Context, id uuid.UUID, completedAt time.Time) error
}

// IdentityDirectory resolves a user id to the requester attributes used by
// the access predicates.
type IdentityDirectory interface {
	GetRequester(ctx context.Context, userID uuid.UUID) (*Requester, error)
}
