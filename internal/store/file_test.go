package store_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Heipiao/taluo/internal/store"
)

func newTestStore(t *testing.T) *store.FileStore {
	t.Helper()
	return store.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	creds := store.Credentials{
		Token: "t1",
		User:  store.UserData{UserID: "u1", Username: "Al", Email: "a@b.com"},
	}
	if err := s.Save(creds); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if got != creds {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, creds)
	}
}

func TestFileStoreLoadEmpty(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Load(); !errors.Is(err, store.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestFileStoreClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Clear(); err != nil {
		t.Fatalf("clearing an empty store: %v", err)
	}

	if err := s.Save(store.Credentials{Token: "t1"}); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear err: %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, store.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials after clear, got %v", err)
	}
}

// A later Load must observe the most recent Save.
func TestFileStoreSequencedWrites(t *testing.T) {
	s := newTestStore(t)

	for i, token := range []string{"t1", "t2", "t3"} {
		if err := s.Save(store.Credentials{Token: token}); err != nil {
			t.Fatalf("Save %d err: %v", i, err)
		}
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if got.Token != "t3" {
		t.Fatalf("expected last write to win, got token %s", got.Token)
	}
}
