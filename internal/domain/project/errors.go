package project

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInvalidTransition indicates the status rule forbids the requested trigger.
	ErrInvalidTransition = errors.New("invalid project status transition")
	// ErrDuplicateRating indicates the project already carries a rating.
	ErrDuplicateRating = errors.New("project already rated")
	// ErrForbidden indicates the acting user lacks the required role.
	ErrForbidden = errors.New("action not permitted for this user")
	// ErrBriefReplaced indicates a newer voice brief superseded the one transcribed.
	ErrBriefReplaced = errors.New("voice brief replaced")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid project input: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// TransitionError names the state a project was in when a trigger was refused.
type TransitionError struct {
	From    Status
	Trigger Trigger
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid project status transition: cannot %s while %s", e.Trigger, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
