package bootstrap

import "sync"

// MemoryStorage is a TokenStorage backed by a single in-process slot.
// Embedders wire their platform's persistent storage instead; tests
// use this directly.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

var _ TokenStorage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryStorage) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
