package persist_test

import (
	"errors"
	"testing"

	"github.com/megachat/megachat/internal/persist"
)

func TestMemoryAdapterLoadMissing(t *testing.T) {
	t.Parallel()

	a := persist.NewMemoryAdapter()
	if _, err := a.Load("nope"); !errors.Is(err, persist.ErrNotFound) {
		t.Fatalf("Load missing: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryAdapterSaveLoad(t *testing.T) {
	t.Parallel()

	a := persist.NewMemoryAdapter()
	if err := a.Save("c1", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := a.Load("c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("Load = %s, want saved payload", got)
	}
}

func TestMemoryAdapterLastWriteWins(t *testing.T) {
	t.Parallel()

	a := persist.NewMemoryAdapter()
	_ = a.Save("c1", []byte("first"))
	_ = a.Save("c1", []byte("second"))

	got, err := a.Load("c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Load = %q, want %q", got, "second")
	}
}

func TestMemoryAdapterLoadReturnsCopy(t *testing.T) {
	t.Parallel()

	a := persist.NewMemoryAdapter()
	_ = a.Save("c1", []byte("abc"))

	got, _ := a.Load("c1")
	got[0] = 'x'

	again, _ := a.Load("c1")
	if string(again) != "abc" {
		t.Errorf("stored payload mutated through returned slice: %q", again)
	}
}

func TestMemoryAdapterDelete(t *testing.T) {
	t.Parallel()

	a := persist.NewMemoryAdapter()
	_ = a.Save("c1", []byte("abc"))
	if err := a.Delete("c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := a.Load("c1"); !errors.Is(err, persist.ErrNotFound) {
		t.Fatalf("Load after delete: err = %v, want ErrNotFound", err)
	}
	if err := a.Delete("c1"); err != nil {
		t.Fatalf("Delete of missing conversation: %v", err)
	}
}
