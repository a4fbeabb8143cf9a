package settings

import (
	"database/sql"
	"fmt"
)

// The settings key holding the fetch service credential.
const KeyApifyToken = "apify_token"

// Store is the key-value settings and handle registry: the fetch service
// credential and the per-platform lists of handles to scrape. Read-only
// from the engine's perspective; writes come from the management API.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Get returns the value for key, or "" when the key is not set.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting '%s': %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store setting '%s': %w", key, err)
	}
	return nil
}

// Handles returns the registered handles for one platform in insertion
// order.
func (s *Store) Handles(platform string) ([]string, error) {
	rows, err := s.db.Query(`SELECT handle FROM handles WHERE platform = ? ORDER BY created_at, handle`, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to list handles: %w", err)
	}
	defer rows.Close()

	var handles []string
	for rows.Next() {
		var handle string
		if err := rows.Scan(&handle); err != nil {
			return nil, fmt.Errorf("failed to scan handle: %w", err)
		}
		handles = append(handles, handle)
	}
	return handles, rows.Err()
}

// AllHandles returns the registered handles grouped by platform.
func (s *Store) AllHandles() (map[string][]string, error) {
	rows, err := s.db.Query(`SELECT platform, handle FROM handles ORDER BY platform, created_at, handle`)
	if err != nil {
		return nil, fmt.Errorf("failed to list handles: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var platform, handle string
		if err := rows.Scan(&platform, &handle); err != nil {
			return nil, fmt.Errorf("failed to scan handle: %w", err)
		}
		out[platform] = append(out[platform], handle)
	}
	return out, rows.Err()
}

// AddHandle registers a handle for a platform. Returns false when the
// handle was already registered.
func (s *Store) AddHandle(platform, handle string) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO handles (platform, handle) VALUES (?, ?)
		ON CONFLICT (platform, handle) DO NOTHING
	`, platform, handle)
	if err != nil {
		return false, fmt.Errorf("failed to add handle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to add handle: %w", err)
	}
	return n > 0, nil
}

// RemoveHandle unregisters a handle. Returns false when it was not
// registered.
func (s *Store) RemoveHandle(platform, handle string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM handles WHERE platform = ? AND handle = ?`, platform, handle)
	if err != nil {
		return false, fmt.Errorf("failed to remove handle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove handle: %w", err)
	}
	return n > 0, nil
}
