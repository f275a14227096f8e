package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/p6risk/internal/domain/montecarlo"
	"github.com/rpggio/p6risk/internal/provider"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, provider.ErrNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to see valid project IDs"}
	case errors.Is(err, montecarlo.ErrNoScheduleData):
		return &APIError{Code: "NO_SCHEDULE_DATA", Message: "project has no activities to simulate", RecoveryHint: "Pick a project with schedule data"}
	case errors.Is(err, montecarlo.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid simulation parameters", RecoveryHint: "Iterations must be positive"}
	default:
		return nil
	}
}

// mapError wraps known domain errors with their API error code before
// they cross the tool boundary.
func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
