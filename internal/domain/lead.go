package domain

import "time"

// LeadStatus represents the lifecycle status of a lead, orthogonal to its
// pipeline step.
type LeadStatus string

const (
	LeadStatusNew    LeadStatus = "new"
	LeadStatusActive LeadStatus = "active"
	LeadStatusWon    LeadStatus = "won"
	LeadStatusLost   LeadStatus = "lost"
	LeadStatusPaused LeadStatus = "paused"
)

// IsTerminal returns true if the status permits no further pipeline movement.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusWon || s == LeadStatusLost
}

// IsValid checks if the status is one of the allowed values.
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusActive, LeadStatusWon, LeadStatusLost, LeadStatusPaused:
		return true
	default:
		return false
	}
}

// Lead represents a prospect moving through a project's pipeline.
type Lead struct {
	ID         string
	ProjectID  string
	Name       string
	Email      string
	Source     string
	Step       string
	Status     LeadStatus
	AssignedTo *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAssignedTo checks if the lead is assigned to the given user.
func (l *Lead) IsAssignedTo(userID string) bool {
	return l.AssignedTo != nil && *l.AssignedTo == userID
}
