// Package conversation implements the client-held conversation store: an
// ordered log of messages with lifecycle invariants (unique IDs, monotonic
// sent → delivered → read progression, denormalized reply snapshots),
// mutation operations, search projections, deferred status timers, async
// responder integration, and save-after-mutation persistence.
package conversation

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/megachat/megachat/internal/persist"
	"github.com/megachat/megachat/internal/responder"
	"github.com/megachat/megachat/pkg/message"
)

// Defaults mirroring the shipped client behavior.
const (
	// DefaultDeliveredDelay is how long after a send the message is marked
	// delivered.
	DefaultDeliveredDelay = 1500 * time.Millisecond
	// DefaultReadDelay is how long after a send the message is marked read.
	DefaultReadDelay = 3 * time.Second
	// DefaultHistoryLimit caps the conversation tail handed to the
	// responder.
	DefaultHistoryLimit = 10

	// Greeting seeds a brand-new conversation.
	greetingText   = "Hey there! Welcome to Mega Chat."
	assistantName  = "Mega AI"
	assistantEmoji = "🤖"
)

// Options tunes a Store. The zero value gets sensible defaults from New.
type Options struct {
	// UserName and UserAvatar decorate user-authored messages.
	UserName   string
	UserAvatar string

	// DeliveredDelay and ReadDelay control the deferred status
	// progression of user messages.
	DeliveredDelay time.Duration
	ReadDelay      time.Duration

	// HistoryLimit caps the tail handed to the responder.
	HistoryLimit int

	// Clock overrides the time source. Defaults to time.Now.
	Clock func() time.Time

	// Notify, when set, receives an Event after each observable change.
	// It is called outside the store lock and may call back into the
	// store.
	Notify func(Event)

	// NoGreeting skips seeding the greeting message when no saved state
	// exists.
	NoGreeting bool
}

func (o *Options) defaults() {
	if o.DeliveredDelay <= 0 {
		o.DeliveredDelay = DefaultDeliveredDelay
	}
	if o.ReadDelay <= 0 {
		o.ReadDelay = DefaultReadDelay
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = DefaultHistoryLimit
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.UserName == "" {
		o.UserName = "You"
	}
}

// Store owns the ordered message log for one conversation.
//
// All mutations go through the store's lock; deferred status timers and the
// responder call are the only asynchronous paths and re-acquire the lock
// before touching state. Any operation that removes a message cancels the
// timers keyed to it first, so a deleted message can never be resurrected by
// a late firing.
type Store struct {
	conversationID string
	adapter        persist.Adapter
	resp           responder.Responder
	logger         *slog.Logger
	opts           Options

	mu     sync.Mutex
	log    []*message.Message
	index  map[string]*message.Message
	alloc  *allocator
	mode   ComposeMode
	search string
	timers map[timerKey]*time.Timer
	closed bool

	responding atomic.Bool
}

// New creates a store for the given conversation, loading saved state from
// the adapter or seeding a greeting when none exists. The responder may be
// nil, in which case sends never produce assistant replies.
func New(conversationID string, adapter persist.Adapter, resp responder.Responder, logger *slog.Logger, opts Options) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	opts.defaults()

	s := &Store{
		conversationID: conversationID,
		adapter:        adapter,
		resp:           resp,
		logger:         logger.With("component", "conversation", "conversation", conversationID),
		opts:           opts,
		index:          make(map[string]*message.Message),
		alloc:          newAllocator(opts.Clock),
		mode:           viewing(),
		timers:         make(map[timerKey]*time.Timer),
	}
	s.load()
	return s
}

// ConversationID returns the ID this store persists under.
func (s *Store) ConversationID() string {
	return s.conversationID
}

// Close cancels all outstanding status timers. The store remains readable
// but schedules no further work.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelAllTimersLocked()
}

// Responding reports whether a responder call is in flight.
func (s *Store) Responding() bool {
	return s.responding.Load()
}

// Messages returns a copy of the full log in order.
func (s *Store) Messages() []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]message.Message, len(s.log))
	for i, m := range s.log {
		out[i] = m.Clone()
	}
	return out
}

// Get returns a copy of the message with the given ID.
func (s *Store) Get(id string) (message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.index[id]
	if !ok {
		return message.Message{}, ErrNotFound
	}
	return m.Clone(), nil
}

// Len returns the number of messages in the log.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log)
}

// Search returns the messages matching a case-insensitive substring query
// against text and sender name, preserving log order. An empty query returns
// the full log. Search is a pure projection; it never mutates the log.
func (s *Store) Search(query string) []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []message.Message
	for _, m := range s.log {
		if m.Matches(query) {
			out = append(out, m.Clone())
		}
	}
	return out
}

// SetSearchQuery stores the active search cursor used by View.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = query
}

// View returns the log filtered by the stored search cursor.
func (s *Store) View() []message.Message {
	s.mu.Lock()
	query := s.search
	s.mu.Unlock()
	return s.Search(query)
}

// Mode returns the composer's current mode.
func (s *Store) Mode() ComposeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// BeginEdit enters edit mode for the given message, leaving any reply
// context. Only user-authored, non-system messages can be edited.
func (s *Store) BeginEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	if m.Sender != message.SenderUser || m.IsSystem {
		return ErrNotFound
	}
	s.mode = ComposeMode{Kind: ComposeEditing, TargetID: id}
	return nil
}

// BeginReply enters reply mode for the given message, leaving any edit
// context.
func (s *Store) BeginReply(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return ErrNotFound
	}
	s.mode = ComposeMode{Kind: ComposeReplying, TargetID: id}
	return nil
}

// CancelCompose returns the composer to viewing mode.
func (s *Store) CancelCompose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = viewing()
}

// emit delivers an event to the notify callback, if one is configured.
// Must be called without holding the store lock.
func (s *Store) emit(ev Event) {
	if s.opts.Notify != nil {
		s.opts.Notify(ev)
	}
}
