package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests. Expiry is checked on read.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int]memorySession
}

type memorySession struct {
	token     string
	expiresAt time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int]memorySession)}
}

func (s *MemoryStore) Set(_ context.Context, userID int, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = memorySession{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || time.Now().After(sess.expiresAt) {
		delete(s.sessions, userID)
		return "", ErrNoSession
	}
	return sess.token, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
