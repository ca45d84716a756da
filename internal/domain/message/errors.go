package message

import "errors"

var (
	// ErrInvalidInput indicates invalid message input.
	ErrInvalidInput = errors.New("invalid message input")
	// ErrForbidden indicates the sender is not a participant of the project.
	ErrForbidden = errors.New("sender is not a project participant")
)
