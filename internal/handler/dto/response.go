package dto

import (
	"time"

	"github.com/mtlprog/leadflow/internal/domain"
	"github.com/mtlprog/leadflow/internal/repository"
)

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Source     string    `json:"source"`
	Step       string    `json:"step"`
	Status     string    `json:"status"`
	AssignedTo *string   `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LeadsListResponse represents the response for GET /leads.
type LeadsListResponse struct {
	Leads  []LeadResponse `json:"leads"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// LeadDetailResponse represents full lead details with event history.
type LeadDetailResponse struct {
	Lead   LeadResponse    `json:"lead"`
	Events []LeadEventInfo `json:"events"`
}

// LeadEventInfo represents a lead event with actor information.
type LeadEventInfo struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   *string   `json:"actor_id"`
	ActorName *string   `json:"actor_name"`
	FromStep  *string   `json:"from_step"`
	ToStep    *string   `json:"to_step"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Steps     []string  `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// BootstrapResponse represents the response for GET /demo/bootstrap.
type BootstrapResponse struct {
	Project ProjectResponse `json:"project"`
	Steps   []string        `json:"steps"`
	Users   []UserResponse  `json:"users"`
	Leads   []LeadResponse  `json:"leads"`
}

// AdvanceRandomResponse represents the response for POST /projects/:id/advance-random.
type AdvanceRandomResponse struct {
	Count int `json:"count"`
}

// StatsResponse represents pipeline statistics for a project.
type StatsResponse struct {
	ProjectID      string         `json:"project_id"`
	TotalLeads     int            `json:"total_leads"`
	LeadsByStep    map[string]int `json:"leads_by_step"`
	LeadsByStatus  map[string]int `json:"leads_by_status"`
	LeadsBySource  map[string]int `json:"leads_by_source"`
	WonRatePercent float64        `json:"won_rate_percent"`
	Users          []UserStats    `json:"users"`
}

// UserStats represents statistics for a single user.
type UserStats struct {
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	Role          string `json:"role"`
	AssignedCount int    `json:"assigned_count"`
	WonCount      int    `json:"won_count"`
}

// ToLeadResponse converts domain.Lead to LeadResponse.
func ToLeadResponse(lead *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:         lead.ID,
		ProjectID:  lead.ProjectID,
		Name:       lead.Name,
		Email:      lead.Email,
		Source:     lead.Source,
		Step:       lead.Step,
		Status:     string(lead.Status),
		AssignedTo: lead.AssignedTo,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
}

// ToLeadResponses converts a slice of domain.Lead to LeadResponse.
func ToLeadResponses(leads []*domain.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i, lead := range leads {
		out[i] = ToLeadResponse(lead)
	}
	return out
}

// ToProjectResponse converts domain.Project to ProjectResponse.
func ToProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:        project.ID,
		Name:      project.Name,
		Steps:     project.Steps,
		CreatedAt: project.CreatedAt,
	}
}

// ToUserResponse converts domain.User to UserResponse.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		ProjectID: user.ProjectID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain.User to UserResponse.
func ToUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = ToUserResponse(user)
	}
	return out
}

// ToLeadEventInfo converts a joined lead event to LeadEventInfo.
func ToLeadEventInfo(event *repository.LeadEventWithActor) LeadEventInfo {
	return LeadEventInfo{
		ID:        event.ID,
		Type:      string(event.Type),
		ActorID:   event.ActorID,
		ActorName: event.ActorName,
		FromStep:  event.FromStep,
		ToStep:    event.ToStep,
		Comment:   event.Comment,
		CreatedAt: event.CreatedAt,
	}
}
