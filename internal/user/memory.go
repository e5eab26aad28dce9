package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests. It enforces the same
// telegram_id uniqueness the database does.
type MemoryStore struct {
	mu         sync.Mutex
	byID       map[string]*User
	byTelegram map[string]string

	// CreateErr, when set, is returned by Create after the uniqueness
	// check. Lets tests simulate store outages.
	CreateErr error
	FindErr   error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]*User),
		byTelegram: make(map[string]string),
	}
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FindErr != nil {
		return nil, s.FindErr
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) FindByTelegramID(_ context.Context, telegramID string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FindErr != nil {
		return nil, s.FindErr
	}
	id, ok := s.byTelegram[telegramID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *MemoryStore) Create(_ context.Context, telegramID, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byTelegram[telegramID]; taken {
		return nil, ErrDuplicate
	}
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}

	now := time.Now()
	u := &User{
		ID:         uuid.NewString(),
		TelegramID: telegramID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.byID[u.ID] = u
	s.byTelegram[telegramID] = u.ID

	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UpdateName(_ context.Context, id, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Name = name
	u.UpdatedAt = time.Now()

	cp := *u
	return &cp, nil
}

// Count reports how many records exist. Test helper.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
