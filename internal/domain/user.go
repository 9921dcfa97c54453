package domain

import "time"

// Role enumerates the actor roles known to the helpdesk.
type Role string

const (
	RoleRequester  Role = "requester"
	RoleTechnician Role = "technician"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
)

// IsStaff reports whether the role bypasses requester restrictions.
func (r Role) IsStaff() bool {
	return r == RoleTechnician || r == RoleManager || r == RoleAdmin
}

// UserStatus represents lifecycle states for a user account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is the domain model for everyone who touches tickets: requesters,
// technicians, managers and admins.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus

	UnitID       *int64
	DepartmentID *int64

	// Manager-capable users flagged as reviewers participate in
	// approval routing.
	IsBusinessReviewer bool
	IsAvailable        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the authenticated principal attached to a mutation request.
type Actor struct {
	ID           int64
	Role         Role
	UnitID       *int64
	DepartmentID *int64
}
