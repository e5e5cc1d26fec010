package pebble_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/megachat/megachat/internal/persist"
	"github.com/megachat/megachat/modules/persist/pebble"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	a, err := pebble.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Save("c1", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := a.Load("c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("Load = %s, want saved log", got)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	a, err := pebble.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close() }()

	if _, err := a.Load("nope"); !errors.Is(err, persist.ErrNotFound) {
		t.Errorf("Load missing = %v, want ErrNotFound", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	t.Parallel()

	a, err := pebble.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Save("c1", []byte("old")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := a.Save("c1", []byte("new")); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := a.Load("c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Load = %s, want new", got)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	t.Parallel()

	a, err := pebble.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Save("c1", []byte("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Delete("c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := a.Load("c1"); !errors.Is(err, persist.ErrNotFound) {
		t.Errorf("Load after Delete = %v, want ErrNotFound", err)
	}
	if err := a.Delete("c1"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "db")

	a, err := pebble.Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := a.Save("c1", []byte("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := pebble.Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer func() { _ = b.Close() }()

	got, err := b.Load("c1")
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if string(got) != "x" {
		t.Errorf("Load = %s, want x", got)
	}
}
