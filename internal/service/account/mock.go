package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore implements Store in memory.
type MockStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMockStore creates an empty in-memory account store.
func NewMockStore() *MockStore {
	return &MockStore{users: make(map[string]*User)}
}

func (m *MockStore) CreateUser(ctx context.Context, u User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.Email]; exists {
		return nil, ErrEmailExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.Email] = &u
	cp := u
	return &cp, nil
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// Compile-time interface check
var _ Store = (*MockStore)(nil)
