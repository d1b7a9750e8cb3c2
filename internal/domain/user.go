package domain

import "time"

// Role represents a user's function within a project.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSetter Role = "setter"
	RoleCloser Role = "closer"
	RoleViewer Role = "viewer"
)

// IsValid checks if the role is one of the allowed values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSetter, RoleCloser, RoleViewer:
		return true
	default:
		return false
	}
}

// User represents a project member working leads.
type User struct {
	ID        string
	ProjectID string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
