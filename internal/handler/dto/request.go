package dto

// CreateLeadRequest represents the request body for POST /leads.
type CreateLeadRequest struct {
	ProjectID  string  `json:"project_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Source     string  `json:"source,omitempty"`
	Step       string  `json:"step,omitempty"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}

// AdvanceLeadRequest represents the request body for POST /leads/:id/advance.
// An empty to_step advances the lead to the next pipeline step.
type AdvanceLeadRequest struct {
	ToStep  string  `json:"to_step,omitempty"`
	ActorID *string `json:"actor_id,omitempty"`
}

// AssignLeadRequest represents the request body for POST /leads/:id/assign.
// A null user_id clears the assignment.
type AssignLeadRequest struct {
	UserID  *string `json:"user_id"`
	ActorID *string `json:"actor_id,omitempty"`
}

// CommentLeadRequest represents the request body for POST /leads/:id/comments.
type CommentLeadRequest struct {
	Comment string  `json:"comment"`
	ActorID *string `json:"actor_id,omitempty"`
}
