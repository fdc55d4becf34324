package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filevault/filevault/pkg/filevault"
)

type session struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// Store implements filevault.SessionStore using an in-memory map with lazy
// expiry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]session
	now      func() time.Time
}

// New creates a new in-memory session store.
func New() *Store {
	return &Store{
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

func (s *Store) Get(ctx context.Context, token string) (uuid.UUID, error) {
	s.mu.RLock()
	sess, exists := s.sessions[token]
	s.mu.RUnlock()

	if !exists {
		return uuid.Nil, filevault.ErrSessionNotFound
	}
	if s.now().After(sess.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return uuid.Nil, filevault.ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *Store) Set(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = session{
		userID:    userID,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
