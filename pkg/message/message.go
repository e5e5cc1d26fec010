package message

import (
	"strings"
	"time"
)

// Message is the atomic unit of a conversation log.
//
// ID is assigned at creation and never changes or gets reused. Timestamp is
// the creation time in unix milliseconds; log order is authoritative, but
// timestamps are non-decreasing in log order because both come from the same
// allocation. Status applies only to user-authored messages.
type Message struct {
	ID           string      `json:"id"`
	Text         string      `json:"text"`
	Sender       Sender      `json:"sender"`
	SenderName   string      `json:"sender_name,omitempty"`
	SenderAvatar string      `json:"sender_avatar,omitempty"`
	Timestamp    int64       `json:"timestamp"`
	Status       Status      `json:"status,omitempty"`
	IsEdited     bool        `json:"is_edited,omitempty"`
	IsForwarded  bool        `json:"is_forwarded,omitempty"`
	IsStarred    bool        `json:"is_starred,omitempty"`
	IsPinned     bool        `json:"is_pinned,omitempty"`
	IsSystem     bool        `json:"is_system,omitempty"`
	IsPending    bool        `json:"is_pending,omitempty"`
	ExpiresAt    int64       `json:"expires_at,omitempty"`
	TopicID      string      `json:"topic_id,omitempty"`
	ReplyTo      *ReplyRef   `json:"reply_to,omitempty"`
	Reactions    Reactions   `json:"reactions,omitempty"`
	Poll         *Poll       `json:"poll,omitempty"`
	Attachment   *Attachment `json:"attachment,omitempty"`
}

// HasAttachment reports whether the message carries a media payload.
func (m *Message) HasAttachment() bool {
	return m.Attachment != nil
}

// Expired reports whether the message carries an expiry that has passed.
func (m *Message) Expired(now time.Time) bool {
	return m.ExpiresAt != 0 && m.ExpiresAt <= now.UnixMilli()
}

// Matches reports whether the message matches a case-insensitive substring
// query against its text or sender name. An empty query matches everything.
func (m *Message) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(m.Text), q) ||
		strings.Contains(strings.ToLower(m.SenderName), q)
}

// Snapshot captures the reply reference for a message quoted at reply time.
// The returned copy is independent of later edits to the original.
func (m *Message) Snapshot() *ReplyRef {
	name := m.SenderName
	if name == "" {
		name = "Unknown"
	}
	ref := &ReplyRef{
		ID:         m.ID,
		Text:       m.Text,
		SenderName: name,
	}
	if m.Attachment != nil {
		att := *m.Attachment
		ref.Attachment = &att
	}
	return ref
}

// Clone returns a deep copy of the message. Mutating the copy never affects
// the original.
func (m *Message) Clone() Message {
	cp := *m
	if m.ReplyTo != nil {
		ref := *m.ReplyTo
		if m.ReplyTo.Attachment != nil {
			att := *m.ReplyTo.Attachment
			ref.Attachment = &att
		}
		cp.ReplyTo = &ref
	}
	if m.Attachment != nil {
		att := *m.Attachment
		cp.Attachment = &att
	}
	if m.Reactions != nil {
		cp.Reactions = m.Reactions.clone()
	}
	if m.Poll != nil {
		poll := *m.Poll
		poll.Options = make([]PollOption, len(m.Poll.Options))
		for i, opt := range m.Poll.Options {
			poll.Options[i] = opt
			poll.Options[i].Votes = append([]string(nil), opt.Votes...)
		}
		cp.Poll = &poll
	}
	return cp
}
