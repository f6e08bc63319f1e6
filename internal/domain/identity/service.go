package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service implements user and role management plus requester-profile
// resolution for the rest of the application.
type Service struct {
	repo UserRepository
}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// Profile is a user joined with their effective roles.
type Profile struct {
	User  *User    `json:"user"`
	Roles []string `json:"roles"`
}

func (s *Service) CreateUser(ctx context.Context, u *User) error {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("invalid email: %s", u.Email)
	}
	if u.DisplayName == "" {
		return fmt.Errorf("display name is required")
	}
	if u.StaffProfile && u.ClientID != nil {
		return fmt.Errorf("a user cannot be both staff and client")
	}
	u.Active = true
	return s.repo.Create(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, u *User) error {
	if u.Email == "" || u.DisplayName == "" {
		return fmt.Errorf("email and display name are required")
	}
	return s.repo.Update(ctx, u)
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// AssignRole grants a staff role. Roles are rejected for users without a
// staff profile; a client cannot hold clinical or billing roles.
func (s *Service) AssignRole(ctx context.Context, userID uuid.UUID, roleName string, grantedBy *uuid.UUID) (*RoleAssignment, error) {
	if !ValidRole(roleName) {
		return nil, fmt.Errorf("invalid role: %s", roleName)
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.StaffProfile {
		return nil, fmt.Errorf("roles require a staff profile")
	}

	a := &RoleAssignment{
		UserID:      userID,
		RoleName:    roleName,
		Active:      true,
		GrantedByID: grantedBy,
	}
	if err := s.repo.AssignRole(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) RevokeRole(ctx context.Context, assignmentID uuid.UUID) error {
	return s.repo.RevokeRole(ctx, assignmentID)
}

func (s *Service) ListAssignments(ctx context.Context, userID uuid.UUID) ([]*RoleAssignment, error) {
	return s.repo.ListAssignments(ctx, userID)
}

// GetProfile resolves a user together with their active roles. Callers
// authorizing requests consume this as the requester's identity.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.ActiveRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Roles: roles}, nil
}
