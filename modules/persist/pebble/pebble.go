// Package pebble implements a persistence adapter backed by a Pebble
// key-value store. Each conversation log is stored as a single value
// under a namespaced key.
package pebble

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/megachat/megachat/internal/persist"
)

// Compile-time interface guard.
var _ persist.Adapter = (*Adapter)(nil)

// Adapter stores conversation logs in a Pebble database.
type Adapter struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at the given path. The caller
// must Close the adapter when done.
func Open(path string) (*Adapter, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble: open %s: %w", path, err)
	}
	return &Adapter{db: db}, nil
}

func key(conversationID string) []byte {
	return []byte("conversation:" + conversationID)
}

// Load implements persist.Adapter.
func (a *Adapter) Load(conversationID string) ([]byte, error) {
	value, closer, err := a.db.Get(key(conversationID))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, persist.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebble: load %s: %w", conversationID, err)
	}
	defer func() { _ = closer.Close() }()

	// The value is only valid until the closer is released; copy it.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Save implements persist.Adapter. Writes are synced to disk before
// returning so a crash never loses an acknowledged save.
func (a *Adapter) Save(conversationID string, data []byte) error {
	if err := a.db.Set(key(conversationID), data, pebble.Sync); err != nil {
		return fmt.Errorf("pebble: save %s: %w", conversationID, err)
	}
	return nil
}

// Delete implements persist.Adapter. Deleting an absent conversation is
// not an error.
func (a *Adapter) Delete(conversationID string) error {
	if err := a.db.Delete(key(conversationID), pebble.Sync); err != nil {
		return fmt.Errorf("pebble: delete %s: %w", conversationID, err)
	}
	return nil
}

// Close closes the underlying database.
func (a *Adapter) Close() error {
	return a.db.Close()
}
