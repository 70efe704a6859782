package session

import "sync"

// MemoryStorage is the in-process ContextStorage used wherever no real
// browsing-context storage is available (tests, native shells, tools).
// Key insertion order is preserved so role listings stay stable.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]string
	order []string
}

// NewMemoryStorage constructs an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

// GetItem returns the value stored under key, if any.
func (s *MemoryStorage) GetItem(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[key]
	return v, ok
}

// SetItem inserts or overwrites the value under key. Overwriting keeps the
// key's original position in the insertion order.
func (s *MemoryStorage) SetItem(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		s.order = append(s.order, key)
	}
	s.items[key] = value
}

// RemoveItem deletes key if present.
func (s *MemoryStorage) RemoveItem(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Keys returns all live keys in insertion order.
func (s *MemoryStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.order...)
}
