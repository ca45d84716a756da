package brief

import "errors"

var (
	// ErrInvalidInput indicates invalid voice brief input.
	ErrInvalidInput = errors.New("invalid voice brief input")
	// ErrForbidden indicates only the project's creator records its brief.
	ErrForbidden = errors.New("only the project creator may record a voice brief")
)
