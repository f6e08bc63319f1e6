package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role names assignable to staff users.
const (
	RoleAdmin     = "admin"
	RoleClinician = "clinician"
	RoleBilling   = "billing"
)

// User maps to the app_user table. Staff users carry a staff profile; client
// users carry a link to their client record. Email is encrypted at rest when
// a PHI encryption key is configured.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	StaffProfile bool       `db:"staff_profile" json:"staff_profile"`
	ClientID     *uuid.UUID `db:"client_id" json:"client_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// RoleAssignment maps to the role_assignment table. Only active assignments
// count toward a user's effective roles.
type RoleAssignment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	RoleName    string     `db:"role_name" json:"role_name"`
	Active      bool       `db:"active" json:"active"`
	GrantedByID *uuid.UUID `db:"granted_by_id" json:"granted_by_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// ValidRole reports whether name is one of the assignable staff roles.
func ValidRole(name string) bool {
	switch name {
	case RoleAdmin, RoleClinician, RoleBilling:
		return true
	}
	return false
}
