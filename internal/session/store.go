package session

import (
	"sync"

	"telegram-ai-relay/internal/model"
)

type entry struct {
	mu sync.Mutex
	s  model.Session
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[int64]*entry
}

// NewMemoryStore creates an in-memory Store. Sessions do not survive a restart.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[int64]*entry)}
}

func (m *memoryStore) entry(userID int64) *entry {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok = m.entries[userID]; ok {
		return e
	}
	e = &entry{s: model.Session{UserID: userID}}
	m.entries[userID] = e
	return e
}

func (m *memoryStore) GetOrCreate(userID int64) model.Session {
	e := m.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.Clone()
}

func (m *memoryStore) Update(userID int64, fn func(s *model.Session)) model.Session {
	e := m.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.s)
	e.s.UserID = userID
	return e.s.Clone()
}

func (m *memoryStore) Clear(userID int64) {
	e := m.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s = model.Session{UserID: userID}
}

func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
