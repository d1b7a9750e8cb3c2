package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Lead errors
	ErrLeadNotFound         = errors.New("lead not found")
	ErrLeadConcurrentUpdate = errors.New("lead was modified concurrently")
	ErrLeadTerminal         = errors.New("lead is in a terminal status")
	ErrUnknownStep          = errors.New("step does not belong to project pipeline")
	ErrNoLeadsInProject     = errors.New("project has no leads")

	// Project errors
	ErrProjectNotFound = errors.New("project not found")

	// User errors
	ErrUserNotFound        = errors.New("user not found")
	ErrUserProjectMismatch = errors.New("user belongs to a different project")

	// Validation errors
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrInvalidRole   = errors.New("invalid user role")
	ErrEmptyComment  = errors.New("comment is required")
	ErrEmptyName     = errors.New("name is required")
)
