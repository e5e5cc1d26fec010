// Package persist defines the load/save boundary for serialized conversation
// logs, with an in-memory implementation. Durable backends live under
// modules/persist.
package persist

import "errors"

// ErrNotFound indicates no saved state exists for the conversation.
var ErrNotFound = errors.New("persist: conversation not found")

// Adapter stores serialized conversation logs keyed by conversation ID.
// The payload is opaque to the adapter (the store serializes the log as a
// JSON array of message records). Implementations must be safe for
// concurrent use.
type Adapter interface {
	// Load returns the serialized log for a conversation.
	// Returns ErrNotFound when no state has been saved yet.
	Load(conversationID string) ([]byte, error)

	// Save replaces the serialized log for a conversation.
	Save(conversationID string, data []byte) error

	// Delete removes all saved state for a conversation. Deleting a
	// conversation that was never saved is not an error.
	Delete(conversationID string) error
}
