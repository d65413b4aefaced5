package cart

import (
	"context"
	"sync"
	"time"
)

// SessionStore keeps one cart per browsing session. Carts expire with the
// session; they are never part of the order record.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type memorySession struct {
	entries   []Entry
	expiresAt time.Time
}

// MemorySessionStore is a process-local SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memorySession),
	}
}

// Load returns the session's cart, or an empty cart for unknown or expired sessions.
func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return New(), nil
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return New(), nil
	}
	return FromEntries(sess.entries), nil
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.IsEmpty() {
		delete(s.sessions, sessionID)
		return nil
	}
	s.sessions[sessionID] = memorySession{
		entries:   c.Entries(),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
