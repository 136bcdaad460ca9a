package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps both scopes in process memory. Durable records live until
// the process exits; session records expire ttl after their last use.
type MemoryStore struct {
	mu       sync.Mutex
	durable  map[string][]byte
	session  map[string]sessionEntry
	ttl      time.Duration
	clockNow func() time.Time
}

type sessionEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		durable:  make(map[string][]byte),
		session:  make(map[string]sessionEntry),
		ttl:      ttl,
		clockNow: time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, owner, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.durable[owner+"/"+key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryStore) Put(_ context.Context, owner, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durable[owner+"/"+key] = append([]byte(nil), payload...)
	return nil
}

// Session returns the session-scope view of the store.
func (m *MemoryStore) Session() *memorySession {
	return &memorySession{m: m}
}

type memorySession struct {
	m *MemoryStore
}

func (s *memorySession) Get(_ context.Context, owner, sessionID, key string) ([]byte, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	k := owner + "/" + sessionID + "/" + key
	e, ok := m.session[k]
	if !ok {
		return nil, nil
	}
	now := m.clockNow()
	if !now.Before(e.expiresAt) {
		delete(m.session, k)
		return nil, nil
	}
	e.expiresAt = now.Add(m.ttl)
	m.session[k] = e
	return append([]byte(nil), e.payload...), nil
}

func (s *memorySession) Put(_ context.Context, owner, sessionID, key string, payload []byte) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session[owner+"/"+sessionID+"/"+key] = sessionEntry{
		payload:   append([]byte(nil), payload...),
		expiresAt: m.clockNow().Add(m.ttl),
	}
	return nil
}
