package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession indicates an operation that requires an active session found
// none. Absence during restore is expected and is reported with this same
// error rather than being swallowed.
var ErrNoSession = errors.New("no active session")

// Store persists session identities keyed by session token. Every mutating
// session operation writes through to the store so memory and storage never
// diverge after a completed call.
type Store interface {
	Save(ctx context.Context, token string, identity Identity) error
	Load(ctx context.Context, token string) (Identity, error)
	Delete(ctx context.Context, token string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Identity
}

// NewMemoryStore builds an in-memory session store for tests and the demo
// deployment without Redis.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]Identity)}
}

func (s *memoryStore) Save(_ context.Context, token string, identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = identity
	return nil
}

func (s *memoryStore) Load(_ context.Context, token string) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.sessions[token]
	if !ok {
		return Identity{}, ErrNoSession
	}
	return identity, nil
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
