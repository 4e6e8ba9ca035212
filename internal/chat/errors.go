package chat

import "errors"

// Domain-specific errors for the chat package.
var (
	ErrEmptyMessage = errors.New("message text is empty")
	ErrMissingUser  = errors.New("user id is required")
)
