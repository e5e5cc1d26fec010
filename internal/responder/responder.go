// Package responder defines the contract for the external reply-generation
// service. The conversation store hands it a role-tagged tail of the log plus
// the new user text and receives plain reply text back. Concrete
// implementations live in separate packages (e.g. modules/responder/openai).
package responder

import "context"

// Role identifies the author of a turn handed to the responder.
type Role string

// Role constants for conversation turns.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior message in the conversation tail.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request carries the recent conversation tail and the new user text.
// History is ordered oldest first and capped by the caller to bound payload
// size.
type Request struct {
	History []Turn `json:"history"`
	Text    string `json:"text"`
}

// Responder generates an assistant reply for a request. A single attempt is
// made per send; there is no retry policy.
type Responder interface {
	// Reply returns the assistant's reply text, or an error when the
	// backend call failed. Errors degrade to "no reply" at the call site;
	// they never surface in the conversation log.
	Reply(ctx context.Context, req Request) (string, error)
}
