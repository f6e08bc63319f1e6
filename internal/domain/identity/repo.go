package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no user or assignment matches.
var ErrNotFound = errors.New("not found")

// UserRepository defines the persistence interface for users and their role
// assignments.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*User, int, error)

	AssignRole(ctx context.Context, a *RoleAssignment) error
	// ActiveRoles returns the role names of the user's active assignments.
	ActiveRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	ListAssignments(ctx context.Context, userID uuid.UUID) ([]*RoleAssignment, error)
	RevokeRole(ctx context.Context, assignmentID uuid.UUID) error
}
