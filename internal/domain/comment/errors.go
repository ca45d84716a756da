package comment

import "errors"

var (
	// ErrCommentNotFound indicates the comment doesn't exist.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrInvalidInput indicates invalid comment input.
	ErrInvalidInput = errors.New("invalid comment input")
	// ErrForbidden indicates the user may not change the comment.
	ErrForbidden = errors.New("comment action not permitted")
)
