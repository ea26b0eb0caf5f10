package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps every collection as one row in a single table, the
// payload being the same JSON-encoded array the file backend stores. Useful
// for kiosks on flash media where a single database file is preferable to a
// directory of JSON files.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database file and its schema.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("storage error creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `CREATE TABLE IF NOT EXISTS collections (
        name TEXT PRIMARY KEY,
        data BLOB NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the raw stored bytes, or nil if the collection was never
// written.
func (s *SQLiteStore) Get(collection string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM collections WHERE name = ?`, collection).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", collection, err)
	}
	return data, nil
}

// Set overwrites the collection row.
func (s *SQLiteStore) Set(collection string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO collections (name, data) VALUES (?, ?)
         ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		collection, data,
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", collection, err)
	}
	return nil
}

// Reset deletes the collection row; a missing row is not an error.
func (s *SQLiteStore) Reset(collection string) error {
	if _, err := s.db.Exec(`DELETE FROM collections WHERE name = ?`, collection); err != nil {
		return fmt.Errorf("reset %s: %w", collection, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
