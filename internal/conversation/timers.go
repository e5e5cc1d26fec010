package conversation

import (
	"time"

	"github.com/megachat/megachat/pkg/message"
)

// timerKey identifies one pending status transition for one message.
type timerKey struct {
	id     string
	target message.Status
}

// scheduleStatusLocked arms the two fire-once status transitions for a
// freshly appended user message. Each timer is tracked in the side table so
// deletion can cancel it. Caller holds the lock.
func (s *Store) scheduleStatusLocked(id string) {
	if s.closed {
		return
	}
	s.armLocked(id, message.StatusDelivered, s.opts.DeliveredDelay)
	s.armLocked(id, message.StatusRead, s.opts.ReadDelay)
}

func (s *Store) armLocked(id string, target message.Status, delay time.Duration) {
	key := timerKey{id: id, target: target}
	s.timers[key] = time.AfterFunc(delay, func() {
		s.advanceStatus(id, target)
	})
}

// advanceStatus applies a deferred status transition. It is a no-op when the
// message has been deleted since scheduling, and never moves a status
// backwards, so transitions observed by readers are always a prefix of
// sent → delivered → read.
func (s *Store) advanceStatus(id string, target message.Status) {
	s.mu.Lock()

	delete(s.timers, timerKey{id: id, target: target})

	m, ok := s.index[id]
	if !ok || !m.Status.Before(target) {
		s.mu.Unlock()
		return
	}
	m.Status = target
	s.saveLocked()
	s.mu.Unlock()

	s.emit(Event{Kind: EventUpdate, MessageID: id})
}

// cancelTimersLocked stops and forgets every pending transition for the
// given message. Caller holds the lock.
func (s *Store) cancelTimersLocked(id string) {
	for _, target := range []message.Status{message.StatusDelivered, message.StatusRead} {
		key := timerKey{id: id, target: target}
		if t, ok := s.timers[key]; ok {
			t.Stop()
			delete(s.timers, key)
		}
	}
}

// cancelAllTimersLocked stops every pending transition. Caller holds the lock.
func (s *Store) cancelAllTimersLocked() {
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}
