package conversation

// EventKind classifies a store notification.
type EventKind string

// Store notification kinds.
const (
	// EventAppend fires when a message is added to the log.
	EventAppend EventKind = "append"
	// EventUpdate fires when an existing message changes (status, text,
	// star, pin, reaction).
	EventUpdate EventKind = "update"
	// EventDelete fires when a message is removed.
	EventDelete EventKind = "delete"
	// EventResponding fires when the responder flag flips; MessageID is
	// the triggering user message.
	EventResponding EventKind = "responding"
)

// Event describes one observable change to the store. The UI layer
// subscribes to re-render on change instead of polling.
type Event struct {
	Kind      EventKind
	MessageID string
}
