package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lysyi3m/social-comb/app/dataset"
)

func TestLoadHistory_Empty(t *testing.T) {
	s := New(t.TempDir())

	ds := s.LoadHistory("twitter", "acme", KindPosts)
	if ds == nil {
		t.Fatal("Expected a dataset, got nil")
	}
	if ds.Len() != 0 {
		t.Errorf("Expected empty dataset for missing history, got %d rows", ds.Len())
	}
}

func TestPersist_LoadHistory_RoundTrip(t *testing.T) {
	s := New(t.TempDir())

	ds := dataset.New()
	ds.Append(dataset.Record{"id": "p1", "text": "hello"})
	ds.Append(dataset.Record{"id": "p2", "text": "world"})

	if err := s.Persist("twitter", "acme", KindPosts, ds); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded := s.LoadHistory("twitter", "acme", KindPosts)
	if loaded.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", loaded.Len())
	}
	if loaded.Rows()[0]["id"] != "p1" {
		t.Errorf("Expected row order preserved, got '%s'", loaded.Rows()[0]["id"])
	}
}

func TestPersist_ReplacesPreviousContent(t *testing.T) {
	s := New(t.TempDir())

	first := dataset.New()
	first.Append(dataset.Record{"id": "p1"})
	if err := s.Persist("twitter", "acme", KindPosts, first); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	second := dataset.New()
	second.Append(dataset.Record{"id": "p2"})
	second.Append(dataset.Record{"id": "p3"})
	if err := s.Persist("twitter", "acme", KindPosts, second); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded := s.LoadHistory("twitter", "acme", KindPosts)
	if loaded.Len() != 2 {
		t.Fatalf("Expected full replace, got %d rows", loaded.Len())
	}
	if loaded.Rows()[0]["id"] != "p2" {
		t.Errorf("Expected replaced content, got '%s'", loaded.Rows()[0]["id"])
	}
}

func TestLoadHistory_ConcatenatesMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	// Canonical file plus a legacy run-stamped snapshot, as left behind by
	// earlier releases
	kindDir := filepath.Join(dir, "twitter", KindComments)
	if err := os.MkdirAll(kindDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(kindDir, "acme_twitter.csv"), "id,text\nc1,stored\n")
	writeFile(t, filepath.Join(kindDir, "acme_twitter_2025-03-10.csv"), "id,text\nc2,legacy\n")

	loaded := s.LoadHistory("twitter", "acme", KindComments)
	if loaded.Len() != 2 {
		t.Fatalf("Expected rows from both files, got %d", loaded.Len())
	}
	// Canonical file sorts first, keeping it ahead of legacy snapshots
	if loaded.Rows()[0]["id"] != "c1" {
		t.Errorf("Expected canonical file loaded first, got '%s'", loaded.Rows()[0]["id"])
	}
}

func TestLoadHistory_SkipsOtherHandles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	kindDir := filepath.Join(dir, "twitter", KindPosts)
	if err := os.MkdirAll(kindDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(kindDir, "acme_twitter.csv"), "id\np1\n")
	writeFile(t, filepath.Join(kindDir, "other_twitter.csv"), "id\np2\n")

	loaded := s.LoadHistory("twitter", "acme", KindPosts)
	if loaded.Len() != 1 {
		t.Fatalf("Expected only acme's history, got %d rows", loaded.Len())
	}
	if loaded.Rows()[0]["id"] != "p1" {
		t.Errorf("Expected acme's row, got '%s'", loaded.Rows()[0]["id"])
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"acme", "acme"},
		{"Acme.Corp", "acme.corp"},
		{"user name", "user-name"},
		{"über/handle", "-ber-handle"},
		{"phitchayathan.thanvarat", "phitchayathan.thanvarat"},
	}

	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
