package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each collection in its own JSON file under a base
// directory (~/.taller by default). Writes are atomic: temp file then
// rename, so a crash mid-write never leaves a half-written collection.
type FileStore struct {
	base string
}

// NewFileStore creates the base directory if needed and returns a store
// rooted there.
func NewFileStore(base string) (*FileStore, error) {
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating %s: %w", base, err)
	}
	return &FileStore{base: base}, nil
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.base, collection+".json")
}

// Get returns the raw stored bytes, or nil if the collection was never
// written.
func (s *FileStore) Get(collection string) ([]byte, error) {
	data, err := os.ReadFile(s.path(collection))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", s.path(collection), err)
	}
	return data, nil
}

// Set overwrites the collection atomically.
func (s *FileStore) Set(collection string, data []byte) error {
	path := s.path(collection)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Reset removes the collection file; a missing file is not an error.
func (s *FileStore) Reset(collection string) error {
	err := os.Remove(s.path(collection))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage error removing %s: %w", s.path(collection), err)
	}
	return nil
}

// Close is a no-op for file-backed storage.
func (s *FileStore) Close() error { return nil }
