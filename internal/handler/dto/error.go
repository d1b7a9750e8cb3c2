package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/leadflow/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Lead errors
	case errors.Is(err, domain.ErrLeadNotFound):
		return http.StatusNotFound, "LEAD_NOT_FOUND", message
	case errors.Is(err, domain.ErrLeadConcurrentUpdate):
		return http.StatusConflict, "LEAD_CONCURRENT_UPDATE", message
	case errors.Is(err, domain.ErrLeadTerminal):
		return http.StatusConflict, "LEAD_TERMINAL", message
	case errors.Is(err, domain.ErrUnknownStep):
		return http.StatusUnprocessableEntity, "UNKNOWN_STEP", message
	case errors.Is(err, domain.ErrNoLeadsInProject):
		return http.StatusNotFound, "NO_LEADS", message

	// Project errors
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND", message

	// User errors
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND", message
	case errors.Is(err, domain.ErrUserProjectMismatch):
		return http.StatusUnprocessableEntity, "USER_PROJECT_MISMATCH", message

	// Validation errors
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrEmptyComment):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrEmptyName):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
