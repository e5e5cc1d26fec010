// Package message defines the data contract between the conversation store,
// the responder, and the persistence adapters. It covers text, attachments,
// reply snapshots, reactions, polls, and the sent/delivered/read lifecycle.
package message

// Sender identifies the author role of a message.
type Sender string

// Supported sender roles.
const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// Status is the delivery state of a user-authored message.
// It only ever moves forward: sent → delivered → read.
type Status string

// Supported delivery states, in progression order.
const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

// rank maps a status to its position in the progression.
// Unknown statuses rank below sent.
func (s Status) rank() int {
	switch s {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	}
	return 0
}

// Before reports whether s precedes other in the sent → delivered → read
// progression.
func (s Status) Before(other Status) bool {
	return s.rank() < other.rank()
}

// AttachmentType discriminates the kind of media carried by an Attachment.
type AttachmentType string

// Supported attachment types. Intake producers map to these directly;
// there is no free-text label matching.
const (
	AttachmentImage        AttachmentType = "image"
	AttachmentVideo        AttachmentType = "video"
	AttachmentFile         AttachmentType = "file"
	AttachmentDocument     AttachmentType = "document"
	AttachmentSticker      AttachmentType = "sticker"
	AttachmentAudio        AttachmentType = "audio"
	AttachmentVoice        AttachmentType = "voice"
	AttachmentLocation     AttachmentType = "location"
	AttachmentLiveLocation AttachmentType = "live_location"
	AttachmentContact      AttachmentType = "contact"
	AttachmentPoll         AttachmentType = "poll"
	AttachmentEvent        AttachmentType = "event"
	AttachmentTemplate     AttachmentType = "template"
	AttachmentRecord       AttachmentType = "record"
)

// Valid reports whether t is one of the supported attachment types.
func (t AttachmentType) Valid() bool {
	switch t {
	case AttachmentImage, AttachmentVideo, AttachmentFile, AttachmentDocument,
		AttachmentSticker, AttachmentAudio, AttachmentVoice, AttachmentLocation,
		AttachmentLiveLocation, AttachmentContact, AttachmentPoll,
		AttachmentEvent, AttachmentTemplate, AttachmentRecord:
		return true
	}
	return false
}

// Attachment is a media payload handed to the store by an intake producer.
// The URL is treated as opaque; no validation or upload orchestration happens
// in the core.
type Attachment struct {
	Type     AttachmentType `json:"type"`
	URL      string         `json:"url"`
	Name     string         `json:"name,omitempty"`
	Size     string         `json:"size,omitempty"`
	MIMEType string         `json:"mime_type,omitempty"`
}

// ReplyRef is a denormalized snapshot of a quoted message, captured at reply
// time. It is never updated, even if the original message is later edited or
// deleted.
type ReplyRef struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	SenderName string      `json:"sender_name"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// PollOption is one votable entry in a poll.
type PollOption struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Votes []string `json:"votes,omitempty"`
}

// Poll is the payload behind an AttachmentPoll message.
type Poll struct {
	Question      string       `json:"question"`
	Options       []PollOption `json:"options"`
	AllowMultiple bool         `json:"allow_multiple,omitempty"`
}
