// Package storage persists named collections as JSON-encoded byte slices.
// It is the seam that replaces the browser-origin key-value storage of the
// original kiosk: a collection is a single value that is always read and
// written whole.
package storage

// Collection names used by the kiosk. SeedMark is the one-time
// initialization marker stored alongside the collections.
const (
	Workers  = "workers"
	Projects = "projects"
	Logs     = "logs"
	SeedMark = "seed"
)

// Store is the persistence contract. Get returns nil (not an empty slice)
// for a collection that has never been written; callers rely on that
// distinction for one-time seeding. Set overwrites the prior content
// entirely. Reset removes the collection as if it had never been written.
type Store interface {
	Get(collection string) ([]byte, error)
	Set(collection string, data []byte) error
	Reset(collection string) error
	Close() error
}
