package conversation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/megachat/megachat/internal/conversation"
	"github.com/megachat/megachat/internal/persist"
)

// eventRecorder collects store notifications for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []conversation.Event
}

func (r *eventRecorder) notify(ev conversation.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) kinds() []conversation.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]conversation.EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func TestNotifyOnMutations(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	// Hour-long delays keep status timers out of the recorded sequence.
	s := conversation.New("c-test", persist.NewMemoryAdapter(), nil, testLogger(t), conversation.Options{
		NoGreeting:     true,
		DeliveredDelay: time.Hour,
		ReadDelay:      2 * time.Hour,
		Notify:         rec.notify,
	})
	defer s.Close()

	m, err := s.Send("hello", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := s.ToggleStar(m.ID); err != nil {
		t.Fatalf("ToggleStar: %v", err)
	}
	if err := s.Delete(m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []conversation.EventKind{
		conversation.EventAppend,
		conversation.EventUpdate,
		conversation.EventDelete,
	}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("recorded %d events (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, ev := range rec.events {
		if ev.MessageID != m.ID {
			t.Errorf("event %q carries ID %q, want %q", ev.Kind, ev.MessageID, m.ID)
		}
	}
}

// The notify callback runs outside the store lock and may call back in.
func TestNotifyMayReenterStore(t *testing.T) {
	t.Parallel()

	var s *conversation.Store
	s = conversation.New("c-test", persist.NewMemoryAdapter(), nil, testLogger(t), conversation.Options{
		NoGreeting:     true,
		DeliveredDelay: time.Hour,
		ReadDelay:      2 * time.Hour,
		Notify: func(ev conversation.Event) {
			_ = s.Len()
			_, _ = s.Get(ev.MessageID)
		},
	})
	defer s.Close()

	if _, err := s.Send("hello", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}
}
