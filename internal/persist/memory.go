package persist

import "sync"

// MemoryAdapter is a thread-safe, in-memory Adapter. It is the default
// backend for tests and for running without durable storage.
type MemoryAdapter struct {
	mu   sync.RWMutex
	logs map[string][]byte
}

// NewMemoryAdapter creates an empty in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{logs: make(map[string][]byte)}
}

// Compile-time interface check.
var _ Adapter = (*MemoryAdapter)(nil)

// Load returns the serialized log for a conversation.
func (a *MemoryAdapter) Load(conversationID string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, ok := a.logs[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Save replaces the serialized log for a conversation.
func (a *MemoryAdapter) Save(conversationID string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs[conversationID] = cp
	return nil
}

// Delete removes all saved state for a conversation.
func (a *MemoryAdapter) Delete(conversationID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.logs, conversationID)
	return nil
}
