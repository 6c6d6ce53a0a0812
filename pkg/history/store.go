// Package history persists the small pieces of local UX state: the bounded
// search history list and the theme flag. Both live in a single sqlite
// key-value table so state survives restarts without any schema ceremony.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// MaxEntries caps the history list; the oldest entry drops off the end.
const MaxEntries = 15

const (
	historyKey = "history"
	themeKey   = "theme"
)

// Store is the durable key-value store behind history and theme state. The
// in-memory list is authoritative; every mutation writes through immediately.
type Store struct {
	mu      sync.Mutex
	db      *sql.DB
	entries []string
	theme   string
}

// Open loads (or creates) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var raw string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", historyKey).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		// fresh store
	case err != nil:
		return fmt.Errorf("reading history: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &s.entries); err != nil {
			// A corrupt row is not worth failing startup over; start empty.
			s.entries = nil
		}
	}

	err = s.db.QueryRow("SELECT value FROM kv WHERE key = ?", themeKey).Scan(&s.theme)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading theme: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts term at the front, moving an existing exact match instead of
// duplicating it, trims to MaxEntries and persists.
func (s *Store) Record(term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]string, 0, len(s.entries)+1)
	entries = append(entries, term)
	for _, e := range s.entries {
		if e != term {
			entries = append(entries, e)
		}
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.entries = entries

	return s.persistHistory()
}

// Remove deletes one exact match and persists.
func (s *Store) Remove(term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries[:0]
	for _, e := range s.entries {
		if e != term {
			entries = append(entries, e)
		}
	}
	s.entries = entries

	return s.persistHistory()
}

// Clear wipes the list and its persisted copy. Callers gate this behind an
// explicit user confirmation.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", historyKey); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// List returns the history, most recent first.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Theme returns the persisted theme flag, or "dark" when unset.
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.theme == "" {
		return "dark"
	}
	return s.theme
}

// SetTheme persists the theme flag.
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = theme
	return s.setValue(themeKey, theme)
}

func (s *Store) persistHistory() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return s.setValue(historyKey, string(data))
}

func (s *Store) setValue(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("persisting %s: %w", key, err)
	}
	return nil
}
