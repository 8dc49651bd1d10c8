package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/jobtrack/internal/domain/filter"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/user"
)

var (
	// ErrForbidden indicates the caller's roles do not grant the component.
	ErrForbidden = errors.New("forbidden")
	// ErrNoIdentity indicates a request that reached a tool without an identity.
	ErrNoIdentity = errors.New("no caller identity")
	// ErrInvalidArgument indicates a malformed tool argument.
	ErrInvalidArgument = errors.New("invalid argument")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	e := &APIError{Message: err.Error(), cause: err}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		e.Code, e.RecoveryHint = "PROJECT_NOT_FOUND", "Call list_projects with status \"all\" to find valid ids"
	case errors.Is(err, project.ErrUnknownField):
		e.Code, e.RecoveryHint = "UNKNOWN_FIELD", "Editable fields: project_address, client, contract_amount, paid"
	case errors.Is(err, filter.ErrUnknownStatus):
		e.Code, e.RecoveryHint = "UNKNOWN_STATUS", "Use one of: all, quoted, active, finished, archived"
	case errors.Is(err, user.ErrUserNotFound):
		e.Code, e.RecoveryHint = "USER_NOT_FOUND", "Check the owner id"
	case errors.Is(err, ErrForbidden):
		e.Code, e.RecoveryHint = "FORBIDDEN", "Ask an admin; this component is role-gated"
	case errors.Is(err, ErrInvalidArgument):
		e.Code = "INVALID_ARGUMENT"
	default:
		e.Code = "INTERNAL"
	}
	return e
}
