package clientfile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service manages client files: creation, measure assignment, and the
// completion stamp recorded when a client submits an outcome response.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, f *ClientFile) error {
	if f.ClientID == uuid.Nil {
		return fmt.Errorf("client id is required")
	}
	if f.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.repo.Create(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClientFile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*ClientFile, error) {
	return s.repo.ListByClient(ctx, clientID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*ClientFile, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// AssignMeasure links a measure to the file and marks it assigned. A
// completed file cannot be reassigned.
func (s *Service) AssignMeasure(ctx context.Context, fileID, measureID uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if f.Status == StatusCompletedByClient {
		return fmt.Errorf("cannot reassign a completed file")
	}
	return s.repo.SetMeasure(ctx, fileID, &measureID)
}

// MarkCompletedByClient records the client-completion side effect.
func (s *Service) MarkCompletedByClient(ctx context.Context, fileID uuid.UUID, completedAt time.Time) error {
	return s.repo.SetCompletedByClient(ctx, fileID, completedAt)
}
