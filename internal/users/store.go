package users

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore implements UserStore with in-memory storage. It is intended
// for tests and local runs without a backing service.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users: make(map[string]*User),
	}
}

// GenerateID produces a fresh unique identifier
func (s *InMemoryStore) GenerateID(ctx context.Context) (string, error) {
	return uuid.New().String(), nil
}

// Get retrieves a user by id
func (s *InMemoryStore) Get(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, NewUserNotFoundError(id)
	}

	copied := *user
	return &copied, nil
}

// Put writes the full record at id, creating or overwriting it
func (s *InMemoryStore) Put(ctx context.Context, id string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *user
	s.users[id] = &copied
	return nil
}

// Delete removes the record at id; a missing id is not an error
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}
