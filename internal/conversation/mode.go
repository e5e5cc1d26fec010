package conversation

// ComposeKind discriminates the composer's current mode.
type ComposeKind string

// Composer modes. Editing and replying are mutually exclusive; entering one
// leaves the other, so invalid combinations cannot be represented.
const (
	ComposeViewing  ComposeKind = "viewing"
	ComposeEditing  ComposeKind = "editing"
	ComposeReplying ComposeKind = "replying"
)

// ComposeMode is the composer's mode plus the message it targets.
// TargetID is empty in viewing mode.
type ComposeMode struct {
	Kind     ComposeKind
	TargetID string
}

func viewing() ComposeMode {
	return ComposeMode{Kind: ComposeViewing}
}

// references reports whether the mode targets the given message ID.
func (m ComposeMode) references(id string) bool {
	return m.Kind != ComposeViewing && m.TargetID == id
}
