package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite is a Store persisted to a local SQLite database, one row per key.
type SQLite struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens or creates the store database at the given path.
func Open(dbPath string, log zerolog.Logger) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("store opened")
	return &SQLite{db: db, log: log}, nil
}

// Close closes the store database.
func (s *SQLite) Close() error {
	s.log.Debug().Msg("store closed")
	return s.db.Close()
}

// Get implements Store.
func (s *SQLite) Get(key Key) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

const upsertSQL = `INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)`

// Set implements Store. The previous value under key is replaced whole.
func (s *SQLite) Set(key Key, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(upsertSQL, string(key), string(value), now); err != nil {
		return err
	}
	s.log.Debug().Str("key", string(key)).Int("bytes", len(value)).Msg("store write")
	return nil
}

// SetBatch implements Batcher. All values are written in one transaction.
func (s *SQLite) SetBatch(values map[Key][]byte) error {
	keys := make([]Key, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, k := range keys {
		if _, err := tx.Exec(upsertSQL, string(k), string(values[k]), now); err != nil {
			return fmt.Errorf("writing %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	s.log.Debug().Int("keys", len(keys)).Msg("store batch write")
	return nil
}

// LastSaved returns the time of the most recent write, or the zero time for
// an empty store.
func (s *SQLite) LastSaved() (time.Time, error) {
	var ts sql.NullString
	if err := s.db.QueryRow("SELECT MAX(updated_at) FROM kv").Scan(&ts); err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, ts.String)
}
