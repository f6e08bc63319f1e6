package clientfile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	files map[uuid.UUID]*ClientFile
}

func newMockRepo() *mockRepo {
	return &mockRepo{files: make(map[uuid.UUID]*ClientFile)}
}

func (m *mockRepo) Create(_ context.Context, f *ClientFile) error {
	f.ID = uuid.New()
	if f.Status == "" {
		f.Status = StatusDraft
	}
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	m.files[f.ID] = f
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*ClientFile, error) {
	f, ok := m.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

func (m *mockRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]*ClientFile, error) {
	var out []*ClientFile
	for _, f := range m.files {
		if f.ClientID == clientID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*ClientFile, int, error) {
	var out []*ClientFile
	for _, f := range m.files {
		out = append(out, f)
	}
	return out, len(out), nil
}

func (m *mockRepo) SetMeasure(_ context.Context, fileID uuid.UUID, measureID *uuid.UUID) error {
	f, ok := m.files[fileID]
	if !ok {
		return ErrNotFound
	}
	f.OutcomeMeasureID = measureID
	f.Status = StatusAssigned
	return nil
}

func (m *mockRepo) SetCompletedByClient(_ context.Context, fileID uuid.UUID, completedAt time.Time) error {
	f, ok := m.files[fileID]
	if !ok {
		return ErrNotFound
	}
	f.Status = StatusCompletedByClient
	f.CompletedDate = &completedAt
	return nil
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &ClientFile{Title: "Intake"}); err == nil {
		t.Error("expected error for missing client id")
	}
	if err := svc.Create(context.Background(), &ClientFile{ClientID: uuid.New()}); err == nil {
		t.Error("expected error for missing title")
	}
}

func TestAssignMeasure(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	f := &ClientFile{ClientID: uuid.New(), Title: "PHQ-9 intake"}
	if err := svc.Create(context.Background(), f); err != nil {
		t.Fatalf("Create: %v", err)
	}

	measureID := uuid.New()
	if err := svc.AssignMeasure(context.Background(), f.ID, measureID); err != nil {
		t.Fatalf("AssignMeasure: %v", err)
	}
	if f.Status != StatusAssigned {
		t.Errorf("status = %q, want %q", f.Status, StatusAssigned)
	}
	if f.OutcomeMeasureID == nil || *f.OutcomeMeasureID != measureID {
		t.Error("measure not linked")
	}
}

func TestAssignMeasure_CompletedFileRejected(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	f := &ClientFile{ClientID: uuid.New(), Title: "Intake"}
	if err := svc.Create(context.Background(), f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.MarkCompletedByClient(context.Background(), f.ID, time.Now()); err != nil {
		t.Fatalf("MarkCompletedByClient: %v", err)
	}

	if err := svc.AssignMeasure(context.Background(), f.ID, uuid.New()); err == nil {
		t.Error("expected error reassigning a completed file")
	}
}

func TestAssignMeasure_UnknownFile(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.AssignMeasure(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMarkCompletedByClient_Stamps(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	f := &ClientFile{ClientID: uuid.New(), Title: "Intake"}
	if err := svc.Create(context.Background(), f); err != nil {
		t.Fatalf("Create: %v", err)
	}

	at := time.Now()
	if err := svc.MarkCompletedByClient(context.Background(), f.ID, at); err != nil {
		t.Fatalf("MarkCompletedByClient: %v", err)
	}
	if f.Status != StatusCompletedByClient {
		t.Errorf("status = %q, want %q", f.Status, StatusCompletedByClient)
	}
	if f.CompletedDate == nil || !f.CompletedDate.Equal(at) {
		t.Error("completed date not stamped")
	}
}
