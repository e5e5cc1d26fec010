package conversation

import (
	"fmt"
	"time"

	"github.com/megachat/megachat/pkg/message"
)

// Send appends a user message and kicks off its side effects: the deferred
// delivered/read progression and, when a responder is configured, an
// asynchronous reply. An active reply context is consumed as the message's
// denormalized snapshot; an active edit context redirects the send to Edit,
// matching the composer's behavior.
//
// Either text or attachment must be present.
func (s *Store) Send(text string, att *message.Attachment) (message.Message, error) {
	return s.send(text, att, 0)
}

// SendTemporary appends a user message that the retention sweep removes
// once ttl has elapsed.
func (s *Store) SendTemporary(text string, ttl time.Duration) (message.Message, error) {
	return s.send(text, nil, s.opts.Clock().Add(ttl).UnixMilli())
}

func (s *Store) send(text string, att *message.Attachment, expiresAt int64) (message.Message, error) {
	if text == "" && att == nil {
		return message.Message{}, ErrEmptyMessage
	}
	if att != nil && !att.Type.Valid() {
		return message.Message{}, ErrInvalidAttachment
	}

	s.mu.Lock()

	if s.mode.Kind == ComposeEditing {
		target := s.mode.TargetID
		s.mu.Unlock()
		if err := s.Edit(target, text); err != nil {
			return message.Message{}, err
		}
		return s.Get(target)
	}

	id, ts := s.alloc.next()
	msg := &message.Message{
		ID:           id,
		Text:         text,
		Sender:       message.SenderUser,
		SenderName:   s.opts.UserName,
		SenderAvatar: s.opts.UserAvatar,
		Timestamp:    ts,
		Status:       message.StatusSent,
		ExpiresAt:    expiresAt,
		Attachment:   att,
	}

	if s.mode.Kind == ComposeReplying {
		if quoted, ok := s.index[s.mode.TargetID]; ok {
			msg.ReplyTo = quoted.Snapshot()
		}
	}
	s.mode = viewing()

	tail := s.historyTailLocked()
	s.appendLocked(msg)
	s.scheduleStatusLocked(id)
	s.saveLocked()
	out := msg.Clone()
	s.mu.Unlock()

	s.emit(Event{Kind: EventAppend, MessageID: id})
	if att == nil {
		// Attachment sends do not consult the responder, matching the
		// shipped client.
		s.startRespond(id, text, tail)
	}
	return out, nil
}

// SendAttachment appends a user message produced by an attachment-intake
// collaborator (camera, gallery, file picker, location, voice recorder).
// The producer supplies the closed-enum type directly.
func (s *Store) SendAttachment(text string, att message.Attachment) (message.Message, error) {
	return s.Send(text, &att)
}

// Edit overwrites the text of an existing message and marks it edited.
// ID, timestamp, sender, and every other field are left untouched. Exits
// edit mode when the target was being edited.
func (s *Store) Edit(id, newText string) error {
	s.mu.Lock()

	m, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	m.Text = newText
	m.IsEdited = true
	if s.mode.references(id) {
		s.mode = viewing()
	}
	s.saveLocked()
	s.mu.Unlock()

	s.emit(Event{Kind: EventUpdate, MessageID: id})
	return nil
}

// Delete removes a message permanently. All pending status timers keyed to
// the ID are cancelled before removal, and any compose context referencing
// it is cleared; a late timer or responder callback observing the stale ID
// becomes a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()

	if _, ok := s.index[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.cancelTimersLocked(id)
	s.removeLocked(id)
	if s.mode.references(id) {
		s.mode = viewing()
	}
	s.saveLocked()
	s.mu.Unlock()

	s.emit(Event{Kind: EventDelete, MessageID: id})
	return nil
}

// ToggleReaction adds actorID to the symbol's reaction set if absent and
// removes it if present. Toggling twice is a no-op overall.
func (s *Store) ToggleReaction(id, symbol, actorID string) error {
	s.mu.Lock()

	m, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if m.Reactions == nil {
		m.Reactions = message.Reactions{}
	}
	m.Reactions.Toggle(symbol, actorID)
	s.saveLocked()
	s.mu.Unlock()

	s.emit(Event{Kind: EventUpdate, MessageID: id})
	return nil
}

// ToggleStar flips the starred flag of a message.
func (s *Store) ToggleStar(id string) error {
	return s.toggleFlag(id, func(m *message.Message) {
		m.IsStarred = !m.IsStarred
	})
}

// TogglePin flips the pinned flag of a message.
func (s *Store) TogglePin(id string) error {
	return s.toggleFlag(id, func(m *message.Message) {
		m.IsPinned = !m.IsPinned
	})
}

func (s *Store) toggleFlag(id string, flip func(*message.Message)) error {
	s.mu.Lock()

	m, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	flip(m)
	s.saveLocked()
	s.mu.Unlock()

	s.emit(Event{Kind: EventUpdate, MessageID: id})
	return nil
}

// Forward duplicates a message's content into a new user message with a
// fresh ID, a current timestamp, the forwarded flag, and an independent
// status progression starting from sent. Reactions, stars, and reply context
// do not travel with the forward.
func (s *Store) Forward(id string) (message.Message, error) {
	s.mu.Lock()

	src, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return message.Message{}, ErrNotFound
	}

	newID, ts := s.alloc.next()
	fwd := &message.Message{
		ID:           newID,
		Text:         src.Text,
		Sender:       message.SenderUser,
		SenderName:   s.opts.UserName,
		SenderAvatar: s.opts.UserAvatar,
		Timestamp:    ts,
		Status:       message.StatusSent,
		IsForwarded:  true,
		TopicID:      src.TopicID,
	}
	if src.Attachment != nil {
		att := *src.Attachment
		fwd.Attachment = &att
	}
	if src.Poll != nil {
		cp := src.Clone()
		fwd.Poll = cp.Poll
	}

	s.appendLocked(fwd)
	s.scheduleStatusLocked(newID)
	s.saveLocked()
	out := fwd.Clone()
	s.mu.Unlock()

	s.emit(Event{Kind: EventAppend, MessageID: newID})
	return out, nil
}

// CreateGroup appends a system message describing the group creation. It
// shares the append path with regular sends but carries no status and
// triggers no side effects.
func (s *Store) CreateGroup(name string, memberIDs []string) (message.Message, error) {
	if name == "" || len(memberIDs) == 0 {
		return message.Message{}, ErrInvalidGroup
	}

	s.mu.Lock()

	id, ts := s.alloc.next()
	msg := &message.Message{
		ID:        id,
		Text:      fmt.Sprintf("You created group %q with %d members.", name, len(memberIDs)),
		Sender:    message.SenderSystem,
		Timestamp: ts,
		IsSystem:  true,
	}
	s.appendLocked(msg)
	s.saveLocked()
	out := msg.Clone()
	s.mu.Unlock()

	s.emit(Event{Kind: EventAppend, MessageID: id})
	return out, nil
}

// PurgeExpired removes every message whose expiry has passed, cancelling
// their timers. Returns the number of messages removed. Called by the
// retention sweep.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()

	now := s.opts.Clock()
	var expired []string
	for _, m := range s.log {
		if m.Expired(now) {
			expired = append(expired, m.ID)
		}
	}
	for _, id := range expired {
		s.cancelTimersLocked(id)
		s.removeLocked(id)
		if s.mode.references(id) {
			s.mode = viewing()
		}
	}
	if len(expired) > 0 {
		s.saveLocked()
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.emit(Event{Kind: EventDelete, MessageID: id})
	}
	return len(expired)
}

// appendLocked adds a message to the log and index. Caller holds the lock.
func (s *Store) appendLocked(m *message.Message) {
	s.log = append(s.log, m)
	s.index[m.ID] = m
}

// removeLocked deletes a message from the log and index without shifting
// other entries' identity. Caller holds the lock.
func (s *Store) removeLocked(id string) {
	delete(s.index, id)
	for i, m := range s.log {
		if m.ID == id {
			s.log = append(s.log[:i], s.log[i+1:]...)
			return
		}
	}
}
