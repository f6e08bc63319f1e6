package clientfile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no client file matches.
var ErrNotFound = errors.New("not found")

// Repository defines the persistence interface for client files.
type Repository interface {
	Create(ctx context.Context, f *ClientFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClientFile, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*ClientFile, error)
	List(ctx context.Context, limit, offset int) ([]*ClientFile, int, error)
	// SetMeasure links or unlinks the outcome measure on a file.
	SetMeasure(ctx context.Context, fileID uuid.UUID, measureID *uuid.UUID) error
	// SetCompletedByClient stamps the file as completed by the client.
	SetCompletedByClient(ctx context.Context, fileID uuid.UUID, completedAt time.Time) error
}
