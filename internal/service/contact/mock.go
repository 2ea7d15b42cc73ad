package contact

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore implements Store in memory, keeping insertion order.
// Setting Err makes every call fail with it.
type MockStore struct {
	mu sync.RWMutex

	persons     map[string]*Person
	personOrder []string
	phones      map[string]*PhoneNumber
	phoneOrder  []string

	Err error
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		persons: make(map[string]*Person),
		phones:  make(map[string]*PhoneNumber),
	}
}

func (m *MockStore) GetPerson(ctx context.Context, id string) (*Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.persons[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockStore) ListPersonsByOwner(ctx context.Context, owner string) ([]Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	var out []Person
	for _, id := range m.personOrder {
		if p := m.persons[id]; p.OwnerEmail == owner {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MockStore) InsertPerson(ctx context.Context, p Person) (*Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	m.persons[p.ID] = &p
	m.personOrder = append(m.personOrder, p.ID)
	cp := p
	return &cp, nil
}

func (m *MockStore) UpdatePerson(ctx context.Context, id string, fields PersonFields) (*Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.persons[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.FirstName = fields.FirstName
	p.LastName = fields.LastName
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *MockStore) DeletePerson(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.persons[id]; !ok {
		return ErrNotFound
	}
	delete(m.persons, id)
	m.personOrder = slices.DeleteFunc(m.personOrder, func(s string) bool { return s == id })
	m.phoneOrder = slices.DeleteFunc(m.phoneOrder, func(s string) bool {
		if m.phones[s].PersonID == id {
			delete(m.phones, s)
			return true
		}
		return false
	})
	return nil
}

func (m *MockStore) GetPhone(ctx context.Context, id string) (*PhoneNumber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	ph, ok := m.phones[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ph
	return &cp, nil
}

func (m *MockStore) ListPhonesByPerson(ctx context.Context, personID string) ([]PhoneNumber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	var out []PhoneNumber
	for _, id := range m.phoneOrder {
		if ph := m.phones[id]; ph.PersonID == personID {
			out = append(out, *ph)
		}
	}
	return out, nil
}

func (m *MockStore) InsertPhone(ctx context.Context, ph PhoneNumber) (*PhoneNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.persons[ph.PersonID]; !ok {
		return nil, ErrNotFound
	}
	if ph.ID == "" {
		ph.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	ph.CreatedAt, ph.UpdatedAt = now, now
	m.phones[ph.ID] = &ph
	m.phoneOrder = append(m.phoneOrder, ph.ID)
	cp := ph
	return &cp, nil
}

func (m *MockStore) UpdatePhone(ctx context.Context, personID, phoneID string, fields PhoneFields) (*PhoneNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	ph, ok := m.phones[phoneID]
	if !ok || ph.PersonID != personID {
		return nil, ErrNotFound
	}
	ph.Phone = fields.Phone
	ph.Kind = fields.Kind
	ph.UpdatedAt = time.Now().UTC()
	cp := *ph
	return &cp, nil
}

func (m *MockStore) DeletePhone(ctx context.Context, personID, phoneID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	ph, ok := m.phones[phoneID]
	if !ok || ph.PersonID != personID {
		return ErrNotFound
	}
	delete(m.phones, phoneID)
	m.phoneOrder = slices.DeleteFunc(m.phoneOrder, func(s string) bool { return s == phoneID })
	return nil
}

// Compile-time interface check
var _ Store = (*MockStore)(nil)
