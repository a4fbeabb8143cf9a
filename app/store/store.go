package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/social-comb/app/dataset"
)

// Dataset kinds persisted per platform and handle.
const (
	KindPosts    = "posts"
	KindComments = "comments"
)

// Store persists datasets as flat CSV files, one directory tree per
// platform with posts/ and comments/ subdirectories. Earlier releases wrote
// one run-stamped file per scrape; loading still discovers those alongside
// the canonical combined file and concatenates everything.
//
// No cross-process locking: two concurrent runs against the same handle are
// undefined behavior (known limitation).
type Store struct {
	dataDir string
}

func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// LoadHistory returns every previously persisted record for the given
// platform, handle and kind. It never fails: a missing directory yields an
// empty dataset, an unreadable file or row is logged and skipped.
func (s *Store) LoadHistory(platformName, handle, kind string) *dataset.Dataset {
	combined := dataset.New()

	dir := filepath.Join(s.dataDir, platformName, kind)
	stem := fileStem(handle, platformName)

	files, err := filepath.Glob(filepath.Join(dir, stem+"*.csv"))
	if err != nil {
		slog.Warn("History discovery failed", "platform", platformName, "handle", handle, "kind", kind, "error", err)
		return combined
	}
	// Canonical file sorts before run-stamped ones, keeping stored rows
	// ahead of later snapshots for first-seen-wins dedup.
	sort.Strings(files)

	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			slog.Warn("Failed to open history file, skipping", "file", file, "error", err)
			continue
		}

		ds, skipped, err := dataset.ReadCSV(f)
		f.Close()
		if err != nil {
			slog.Warn("Failed to parse history file, skipping", "file", file, "error", err)
			continue
		}
		if skipped > 0 {
			slog.Warn("Skipped unparseable rows in history file", "file", file, "rows", skipped)
		}

		combined.Concat(ds)
	}

	return combined
}

// Persist writes the dataset as the canonical combined file for the given
// platform, handle and kind, fully replacing any previous content. The
// caller is responsible for having merged prior history into ds first.
func (s *Store) Persist(platformName, handle, kind string, ds *dataset.Dataset) error {
	dir := filepath.Join(s.dataDir, platformName, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	target := filepath.Join(dir, fileStem(handle, platformName)+".csv")

	tmp, err := os.CreateTemp(dir, ".persist-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err := ds.WriteCSV(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace dataset file: %w", err)
	}

	return nil
}

func fileStem(handle, platformName string) string {
	return sanitizeName(handle) + "_" + sanitizeName(platformName)
}

// sanitizeName turns an arbitrary handle into a deterministic filename
// fragment: unicode-normalized, lowercased, with anything outside
// [a-z0-9.-] collapsed to '-'.
func sanitizeName(name string) string {
	normalized := norm.NFKC.String(strings.ToLower(name))

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
