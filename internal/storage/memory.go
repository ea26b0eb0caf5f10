package storage

// MemStore is an in-memory Store for tests.
type MemStore struct {
	data map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

func (s *MemStore) Get(collection string) ([]byte, error) {
	data, ok := s.data[collection]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemStore) Set(collection string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[collection] = stored
	return nil
}

func (s *MemStore) Reset(collection string) error {
	delete(s.data, collection)
	return nil
}

func (s *MemStore) Close() error { return nil }
