package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/cutroom/internal/domain/brief"
	"github.com/rpggio/cutroom/internal/domain/comment"
	"github.com/rpggio/cutroom/internal/domain/message"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
	"github.com/rpggio/cutroom/internal/repository"
)

// ErrUnauthenticated is returned by tools that need an acting user when none was supplied.
var ErrUnauthenticated = errors.New("no acting user")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TransitionDetails describes a refused status transition.
type TransitionDetails struct {
	Status  project.Status  `json:"status"`
	Trigger project.Trigger `json:"trigger"`
}

// MapError maps domain errors to MCP error codes.
// Unknown errors map to INTERNAL with the error text.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var transition *project.TransitionError
	var validation *project.ValidationError
	var storage *repository.StorageError

	switch {
	case errors.As(err, &transition):
		return &APIError{
			Code:         "INVALID_TRANSITION",
			Message:      err.Error(),
			Details:      TransitionDetails{Status: transition.From, Trigger: transition.Trigger},
			RecoveryHint: "Reload the project and check its status",
		}
	case errors.As(err, &validation):
		return &APIError{
			Code:         "VALIDATION_ERROR",
			Message:      err.Error(),
			Details:      map[string]string{"field": validation.Field, "reason": validation.Reason},
			RecoveryHint: "Fix the named field and retry",
		}
	case errors.Is(err, ErrUnauthenticated):
		return &APIError{Code: "UNAUTHENTICATED", Message: err.Error(), RecoveryHint: "Pass a bearer token or _meta.user_id"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, version.ErrVersionNotFound):
		return &APIError{Code: "VERSION_NOT_FOUND", Message: "version not found", RecoveryHint: "List the project's versions"}
	case errors.Is(err, comment.ErrCommentNotFound):
		return &APIError{Code: "COMMENT_NOT_FOUND", Message: "comment not found", RecoveryHint: "List the version's comments"}
	case errors.Is(err, profile.ErrProfileNotFound):
		return &APIError{Code: "PROFILE_NOT_FOUND", Message: "profile not found", RecoveryHint: "Call onboard first"}
	case errors.Is(err, profile.ErrAlreadyOnboarded):
		return &APIError{Code: "ALREADY_ONBOARDED", Message: err.Error()}
	case errors.Is(err, project.ErrDuplicateRating):
		return &APIError{Code: "DUPLICATE_RATING", Message: err.Error(), RecoveryHint: "A project is rated once"}
	case errors.Is(err, project.ErrForbidden),
		errors.Is(err, message.ErrForbidden),
		errors.Is(err, comment.ErrForbidden),
		errors.Is(err, brief.ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: err.Error(), RecoveryHint: "Act as a participant with the required role"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, version.ErrInvalidInput),
		errors.Is(err, message.ErrInvalidInput),
		errors.Is(err, comment.ErrInvalidInput),
		errors.Is(err, brief.ErrInvalidInput),
		errors.Is(err, profile.ErrInvalidInput):
		return &APIError{Code: "VALIDATION_ERROR", Message: err.Error()}
	case errors.As(err, &storage):
		return &APIError{
			Code:         "STORAGE_ERROR",
			Message:      err.Error(),
			Details:      map[string]string{"op": storage.Op, "id": storage.ID},
			RecoveryHint: "Retry later",
		}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
