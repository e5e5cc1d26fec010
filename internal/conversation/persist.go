package conversation

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/megachat/megachat/internal/persist"
	"github.com/megachat/megachat/pkg/message"
)

// load restores the log from the persistence adapter, or seeds the greeting
// when no saved state exists. Load failures are logged and degrade to a
// fresh conversation; they never prevent the store from starting.
func (s *Store) load() {
	if s.adapter == nil {
		s.seed()
		return
	}

	data, err := s.adapter.Load(s.conversationID)
	switch {
	case errors.Is(err, persist.ErrNotFound):
		s.seed()
		return
	case err != nil:
		s.logger.Warn("loading conversation failed, starting fresh", "error", err)
		s.seed()
		return
	}

	var msgs []message.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		s.logger.Warn("saved conversation is corrupt, starting fresh", "error", err)
		s.seed()
		return
	}

	for i := range msgs {
		m := msgs[i]
		s.appendLocked(&m)
		s.alloc.reserve(m.ID)
	}
}

// seed initializes a brand-new conversation with the assistant greeting,
// timestamped slightly in the past so the first user message sorts after it.
func (s *Store) seed() {
	if s.opts.NoGreeting {
		return
	}
	ts := s.opts.Clock().Add(-100 * time.Second).UnixMilli()
	s.alloc.reserve("1")
	s.appendLocked(&message.Message{
		ID:           "1",
		Text:         greetingText,
		Sender:       message.SenderAssistant,
		SenderName:   assistantName,
		SenderAvatar: assistantEmoji,
		Timestamp:    ts,
		Status:       message.StatusRead,
	})
}

// saveLocked serializes the log and hands it to the persistence adapter.
// Save failures are logged, not surfaced; the in-memory log stays
// authoritative and the next mutation retries. Saves happen synchronously
// under the store lock, so a slower earlier save can never overwrite a later
// mutation's state. Caller holds the lock.
func (s *Store) saveLocked() {
	if s.adapter == nil {
		return
	}

	msgs := make([]message.Message, len(s.log))
	for i, m := range s.log {
		msgs[i] = *m
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		s.logger.Error("serializing conversation failed", "error", err)
		return
	}
	if err := s.adapter.Save(s.conversationID, data); err != nil {
		s.logger.Warn("saving conversation failed", "error", err)
	}
}
