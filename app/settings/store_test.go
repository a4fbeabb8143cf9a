package settings

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	return NewStore(db)
}

func TestStore_GetSet(t *testing.T) {
	s := newTestStore(t)

	value, err := s.Get(KeyApifyToken)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value for an unset key, got '%s'", value)
	}

	if err := s.Set(KeyApifyToken, "token-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, _ = s.Get(KeyApifyToken); value != "token-1" {
		t.Errorf("Expected 'token-1', got '%s'", value)
	}

	// Setting again overwrites
	if err := s.Set(KeyApifyToken, "token-2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, _ = s.Get(KeyApifyToken); value != "token-2" {
		t.Errorf("Expected 'token-2', got '%s'", value)
	}
}

func TestStore_Handles(t *testing.T) {
	s := newTestStore(t)

	added, err := s.AddHandle("twitter", "acme")
	if err != nil {
		t.Fatalf("AddHandle failed: %v", err)
	}
	if !added {
		t.Error("Expected handle to be added")
	}

	// Duplicate registration is a no-op
	added, err = s.AddHandle("twitter", "acme")
	if err != nil {
		t.Fatalf("AddHandle failed: %v", err)
	}
	if added {
		t.Error("Expected duplicate registration to report false")
	}

	if _, err := s.AddHandle("twitter", "widgets"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddHandle("instagram", "acme"); err != nil {
		t.Fatal(err)
	}

	handles, err := s.Handles("twitter")
	if err != nil {
		t.Fatalf("Handles failed: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("Expected 2 twitter handles, got %d", len(handles))
	}
	if handles[0] != "acme" || handles[1] != "widgets" {
		t.Errorf("Unexpected handles: %v", handles)
	}

	all, err := s.AllHandles()
	if err != nil {
		t.Fatalf("AllHandles failed: %v", err)
	}
	if len(all) != 2 || len(all["twitter"]) != 2 || len(all["instagram"]) != 1 {
		t.Errorf("Unexpected grouped handles: %v", all)
	}
}

func TestStore_RemoveHandle(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddHandle("twitter", "acme"); err != nil {
		t.Fatal(err)
	}

	removed, err := s.RemoveHandle("twitter", "acme")
	if err != nil {
		t.Fatalf("RemoveHandle failed: %v", err)
	}
	if !removed {
		t.Error("Expected handle to be removed")
	}

	removed, err = s.RemoveHandle("twitter", "acme")
	if err != nil {
		t.Fatalf("RemoveHandle failed: %v", err)
	}
	if removed {
		t.Error("Expected removal of an unknown handle to report false")
	}

	handles, err := s.Handles("twitter")
	if err != nil {
		t.Fatal(err)
	}
	if len(handles) != 0 {
		t.Errorf("Expected no handles, got %v", handles)
	}
}
