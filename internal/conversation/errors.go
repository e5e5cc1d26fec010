package conversation

import "errors"

// Sentinel errors for conversation store operations. All are local,
// recoverable conditions; no operation leaves the store unusable.
var (
	// ErrNotFound indicates the operation targeted a message ID that is
	// not in the log.
	ErrNotFound = errors.New("conversation: message not found")

	// ErrEmptyMessage indicates a send with no text and no attachment.
	ErrEmptyMessage = errors.New("conversation: empty message")

	// ErrInvalidAttachment indicates an attachment with a type outside the
	// closed enumeration.
	ErrInvalidAttachment = errors.New("conversation: invalid attachment type")

	// ErrInvalidGroup indicates a group creation with no name or no members.
	ErrInvalidGroup = errors.New("conversation: group needs a name and members")
)
