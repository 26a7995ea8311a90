// Package store persists the last successfully fetched payload per
// analytical view so `finsight snapshot` can inspect data between runs.
// It is never consulted to satisfy a fetch.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is the SQLite-backed snapshot archive.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the snapshot database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the snapshot database location under the user's
// data directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "finsight", "snapshots.db"), nil
}

// SaveSnapshot upserts the payload for a view. The payload is stored as
// JSON alongside its fetch time.
func (s *Store) SaveSnapshot(view string, payload any, fetchedAt time.Time) error {
	blob, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s snapshot: %w", view, err)
	}

	_, err = s.db.Exec(`INSERT INTO snapshots (view, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(view) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		view, string(blob), fetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving %s snapshot: %w", view, err)
	}
	return nil
}

// Row is one persisted snapshot.
type Row struct {
	View      string
	Payload   []byte
	FetchedAt time.Time
}

// LoadAll returns every persisted snapshot ordered by view name.
func (s *Store) LoadAll() ([]Row, error) {
	rows, err := s.db.Query("SELECT view, payload, fetched_at FROM snapshots ORDER BY view")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Row
	for rows.Next() {
		var r Row
		var payload, fetched string
		if err := rows.Scan(&r.View, &payload, &fetched); err != nil {
			return nil, err
		}
		r.Payload = []byte(payload)
		r.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Load returns the persisted snapshot for a single view.
func (s *Store) Load(view string) (Row, bool, error) {
	var r Row
	var payload, fetched string
	err := s.db.QueryRow("SELECT view, payload, fetched_at FROM snapshots WHERE view = ?", view).
		Scan(&r.View, &payload, &fetched)
	if err == sql.ErrNoRows {
		return Row{}, false, nil
	}
	if err != nil {
		return Row{}, false, err
	}
	r.Payload = []byte(payload)
	r.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
	return r, true, nil
}

// Clear removes every persisted snapshot.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM snapshots")
	return err
}

// Count returns the number of persisted snapshots.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	return count, err
}
