package responder

import "errors"

// Sentinel errors for responder operations.
var (
	// ErrUnavailable indicates the backend is temporarily unreachable or
	// returned a server error.
	ErrUnavailable = errors.New("responder: backend unavailable")

	// ErrRateLimit indicates the backend returned a rate limit response.
	ErrRateLimit = errors.New("responder: rate limited")

	// ErrEmptyReply indicates the backend answered with no usable text.
	ErrEmptyReply = errors.New("responder: empty reply")
)
