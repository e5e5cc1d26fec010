package conversation

import (
	"context"
	"time"

	"github.com/megachat/megachat/internal/responder"
	"github.com/megachat/megachat/pkg/message"
)

// responderTimeout bounds a single reply attempt.
const responderTimeout = 60 * time.Second

// historyTailLocked builds the role-tagged conversation tail for the
// responder: the last HistoryLimit user/assistant messages, oldest first,
// excluding system entries. Caller holds the lock.
func (s *Store) historyTailLocked() []responder.Turn {
	var tail []responder.Turn
	for _, m := range s.log {
		switch m.Sender {
		case message.SenderUser:
			tail = append(tail, responder.Turn{Role: responder.RoleUser, Text: m.Text})
		case message.SenderAssistant:
			tail = append(tail, responder.Turn{Role: responder.RoleAssistant, Text: m.Text})
		}
	}
	if len(tail) > s.opts.HistoryLimit {
		tail = tail[len(tail)-s.opts.HistoryLimit:]
	}
	return tail
}

// startRespond launches the asynchronous responder call for a just-sent user
// message. A single attempt is made. Failures are logged and swallowed: the
// log gains no assistant message and the responding flag drops back to
// false. The shipped client surfaces no error bubble, and the store keeps
// that behavior.
func (s *Store) startRespond(triggerID, text string, tail []responder.Turn) {
	if s.resp == nil {
		return
	}

	s.responding.Store(true)
	s.emit(Event{Kind: EventResponding, MessageID: triggerID})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), responderTimeout)
		defer cancel()

		reply, err := s.resp.Reply(ctx, responder.Request{History: tail, Text: text})

		s.responding.Store(false)
		if err != nil {
			s.logger.Warn("responder call failed", "trigger", triggerID, "error", err)
			s.emit(Event{Kind: EventResponding, MessageID: triggerID})
			return
		}

		s.mu.Lock()
		// The triggering message may have been deleted while the call was
		// in flight; its reply is discarded rather than resurrected.
		if _, ok := s.index[triggerID]; !ok || s.closed {
			s.mu.Unlock()
			s.emit(Event{Kind: EventResponding, MessageID: triggerID})
			return
		}

		id, ts := s.alloc.next()
		msg := &message.Message{
			ID:           id,
			Text:         reply,
			Sender:       message.SenderAssistant,
			SenderName:   assistantName,
			SenderAvatar: assistantEmoji,
			Timestamp:    ts,
			Status:       message.StatusRead,
		}
		s.appendLocked(msg)
		s.saveLocked()
		s.mu.Unlock()

		s.emit(Event{Kind: EventResponding, MessageID: triggerID})
		s.emit(Event{Kind: EventAppend, MessageID: id})
	}()
}
