package outcome

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service implements the outcome-measure operations: role-filtered listing,
// creator/admin-gated mutation, response scoring and response access. All
// operations are synchronous and request-scoped; the only shared mutable
// state is the response row keyed by client file, which the repository
// upserts atomically.
type Service struct {
	measures  MeasureRepository
	responses ResponseRepository
	files     ClientFileStore
	directory IdentityDirectory
	tx        TxRunner
}

// TxRunner runs fn atomically: repositories resolving their connection from
// fn's context join a single transaction. A nil runner executes fn directly.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

func NewService(measures MeasureRepository, responses ResponseRepository, files ClientFileStore, directory IdentityDirectory, tx TxRunner) *Service {
	return &Service{measures: measures, responses: responses, files: files, directory: directory, tx: tx}
}

func (s *Service) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx(ctx, fn)
}

var validSharable = map[string]bool{
	SharableYes: true, SharableNo: true,
}

var validAccessLevels = map[string]bool{
	AccessLevelAdmin: true, AccessLevelClinician: true, AccessLevelBilling: true,
}

// ListMeasures returns the measures visible to the requester. Admin-tier
// measures are always included; clinician and billing tiers require the
// matching active role.
func (s *Service) ListMeasures(ctx context.Context, requesterID uuid.UUID) ([]*Measure, error) {
	req, err := s.requester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.measures.ListByAccessLevels(ctx, AllowedAccessLevels(req.Roles))
}

// ListSharableMeasures returns every sharable measure, ignoring access levels
// and the requester's roles entirely.
func (s *Service) ListSharableMeasures(ctx context.Context) ([]*Measure, error) {
	return s.measures.ListSharable(ctx)
}

// CreateMeasure validates the content and stores a new measure owned by the
// creator. Validation failures block persistence; nothing is written.
func (s *Service) CreateMeasure(ctx context.Context, m *Measure, creatorID uuid.UUID) error {
	if m.Title == "" {
		return &BadRequestError{Reason: "title is required"}
	}
	if m.Sharable == "" {
		m.Sharable = SharableNo
	}
	if !validSharable[m.Sharable] {
		return &BadRequestError{Reason: fmt.Sprintf("invalid sharable value: %s", m.Sharable)}
	}
	if m.AccessLevel == "" {
		m.AccessLevel = AccessLevelClinician
	}
	if !validAccessLevels[m.AccessLevel] {
		return &BadRequestError{Reason: fmt.Sprintf("invalid access level: %s", m.AccessLevel)}
	}
	if err := ValidateContent(&m.Content); err != nil {
		return err
	}
	m.CreatorID = creatorID
	return s.measures.Create(ctx, m)
}

// GetMeasure returns a single measure by id.
func (s *Service) GetMeasure(ctx context.Context, id uuid.UUID) (*Measure, error) {
	m, err := s.measures.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Resource: "outcome measure"}
	}
	return m, err
}

// MeasurePatch carries the updatable fields of a measure. Nil fields are
// left unchanged.
type MeasurePatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Sharable    *string         `json:"sharable,omitempty"`
	AccessLevel *string         `json:"access_level,omitempty"`
	Content     *MeasureContent `json:"content,omitempty"`
}

// UpdateMeasure applies a patch after checking existence and ownership, in
// that order: a missing measure is NotFound before any permission check runs.
func (s *Service) UpdateMeasure(ctx context.Context, id uuid.UUID, patch *MeasurePatch, requesterID uuid.UUID) (*Measure, error) {
	m, err := s.measures.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Resource: "outcome measure"}
	}
	if err != nil {
		return nil, err
	}

	req, err := s.requester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !CanMutateMeasure(m, req) {
		return nil, &ForbiddenError{Reason: "Only the measure creator or admin can update this measure"}
	}

	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Description != nil {
		m.Description = patch.Description
	}
	if patch.Sharable != nil {
		if !validSharable[*patch.Sharable] {
			return nil, &BadRequestError{Reason: fmt.Sprintf("invalid sharable value: %s", *patch.Sharable)}
		}
		m.Sharable = *patch.Sharable
	}
	if patch.AccessLevel != nil {
		if !validAccessLevels[*patch.AccessLevel] {
			return nil, &BadRequestError{Reason: fmt.Sprintf("invalid access level: %s", *patch.AccessLevel)}
		}
		m.AccessLevel = *patch.AccessLevel
	}
	if patch.Content != nil {
		if err := ValidateContent(patch.Content); err != nil {
			return nil, err
		}
		m.Content = *patch.Content
	}

	if err := s.measures.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMeasure removes a measure after the same existence and ownership
// checks as UpdateMeasure.
func (s *Service) DeleteMeasure(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	m, err := s.measures.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{Resource: "outcome measure"}
	}
	if err != nil {
		return err
	}

	req, err := s.requester(ctx, requesterID)
	if err != nil {
		return err
	}
	if !CanMutateMeasure(m, req) {
		return &ForbiddenError{Reason: "Only the measure creator or admin can delete this measure"}
	}

	return s.measures.Delete(ctx, id)
}

// SubmitResponse scores a client's answers against the measure linked to the
// client file and upserts the resulting response. Steps run in a fixed
// order: resolve the file, check the measure link, authorize the submitting
// client, score, persist, then mark the file completed.
func (s *Service) SubmitResponse(ctx context.Context, clientFileID uuid.UUID, answers []Answer, requesterID uuid.UUID) (*MeasureResponse, error) {
	file, err := s.files.GetFileInfo(ctx, clientFileID)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Resource: "client file"}
	}
	if err != nil {
		return nil, err
	}

	if file.OutcomeMeasureID == nil {
		return nil, &BadRequestError{Reason: "This client file is not linked to an outcome measure"}
	}

	req, err := s.requester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if req.ClientID == nil || *req.ClientID != file.ClientID {
		return nil, &ForbiddenError{Reason: "Only the client can submit responses"}
	}

	m, err := s.measures.GetByID(ctx, *file.OutcomeMeasureID)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Resource: "outcome measure"}
	}
	if err != nil {
		return nil, err
	}

	total := TotalScore(answers)
	resp := &MeasureResponse{
		ClientFileID:   clientFileID,
		Answers:        answers,
		TotalScore:     total,
		Classification: Classify(m.Content.ScoringCriteria, total),
	}
	// The response write and the completion side effect commit together:
	// a client file is never marked completed without its response row.
	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.responses.UpsertByClientFile(ctx, resp); err != nil {
			return err
		}
		return s.files.MarkCompletedByClient(ctx, clientFileID, time.Now())
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// GetResponse returns a scored response, readable by the client who owns the
// file or by any user with a staff profile.
func (s *Service) GetResponse(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*MeasureResponse, error) {
	resp, err := s.responses.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Resource: "response"}
	}
	if err != nil {
		return nil, err
	}

	file, err := s.files.GetFileInfo(ctx, resp.ClientFileID)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Resource: "client file"}
	}
	if err != nil {
		return nil, err
	}

	req, err := s.requester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !CanAccessResponse(file, req) {
		return nil, &ForbiddenError{Reason: "You can only access your own responses"}
	}

	return resp, nil
}

// requester resolves the requester's identity attributes; a missing user is
// NotFound, never Forbidden.
func (s *Service) requester(ctx context.Context, userID uuid.UUID) (*Requester, error) {
	req, err := s.directory.GetRequester(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Resource: "user"}
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}
