// Package sqlite implements a persistent SQLite-backed persistence adapter.
// It uses modernc.org/sqlite (pure Go, no CGO) with WAL mode and a single
// connection, since SQLite serialises writes anyway.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/megachat/megachat/internal/persist"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const defaultBusyTimeout = 5000 // milliseconds

// Compile-time interface guard.
var _ persist.Adapter = (*Adapter)(nil)

// Adapter stores conversation logs in a SQLite database, one row per
// conversation.
type Adapter struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at the given path and returns
// an adapter backed by it. Parent directories are created as needed. The
// caller must Close the adapter when done.
func Open(path string) (*Adapter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	// SQLite handles one writer at a time; limit pool to 1 connection
	// so PRAGMAs apply consistently.
	db.SetMaxOpenConns(1)

	ctx := context.TODO()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: set busy_timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Adapter{db: db}, nil
}

// Load implements persist.Adapter.
func (a *Adapter) Load(conversationID string) ([]byte, error) {
	var data []byte
	err := a.db.QueryRowContext(context.TODO(),
		"SELECT log FROM conversations WHERE id = ?", conversationID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, persist.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load %s: %w", conversationID, err)
	}
	return data, nil
}

// Save implements persist.Adapter.
func (a *Adapter) Save(conversationID string, data []byte) error {
	_, err := a.db.ExecContext(context.TODO(),
		`INSERT INTO conversations (id, log, updated_at)
		 VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		 ON CONFLICT(id) DO UPDATE SET
		   log = excluded.log,
		   updated_at = excluded.updated_at`,
		conversationID, data)
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", conversationID, err)
	}
	return nil
}

// Delete implements persist.Adapter. Deleting an absent conversation is
// not an error.
func (a *Adapter) Delete(conversationID string) error {
	_, err := a.db.ExecContext(context.TODO(),
		"DELETE FROM conversations WHERE id = ?", conversationID)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", conversationID, err)
	}
	return nil
}

// Close closes the underlying database.
func (a *Adapter) Close() error {
	return a.db.Close()
}
