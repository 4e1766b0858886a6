package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/automation/internal/domain/automation"
)

// pending is a stored authorization with its expiration
type pending struct {
	auth      automation.PendingAuthorization
	expiresAt time.Time
}

// InMemoryAuthorizationStore implements automation.AuthorizationStore using an in-memory map.
// State does not survive restarts and is not shared between instances.
type InMemoryAuthorizationStore struct {
	mu        sync.Mutex
	entries   map[string]pending
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryAuthorizationStore creates a new in-memory store and starts
// a background goroutine that removes expired entries
func NewInMemoryAuthorizationStore() *InMemoryAuthorizationStore {
	store := &InMemoryAuthorizationStore{
		entries:  make(map[string]pending),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Put stores p until ttl elapses
func (s *InMemoryAuthorizationStore) Put(_ context.Context, p automation.PendingAuthorization, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, exists := s.entries[p.State]; exists && now.Before(e.expiresAt) {
		return automation.ErrAuthorizationExists
	}

	s.entries[p.State] = pending{auth: p, expiresAt: now.Add(ttl)}
	return nil
}

// Take returns and removes the pending authorization for state
func (s *InMemoryAuthorizationStore) Take(_ context.Context, state string) (automation.PendingAuthorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[state]
	if !exists {
		return automation.PendingAuthorization{}, automation.ErrAuthorizationNotFound
	}
	delete(s.entries, state)

	if !s.now().Before(e.expiresAt) {
		return automation.PendingAuthorization{}, automation.ErrAuthorizationNotFound
	}
	return e.auth, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryAuthorizationStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryAuthorizationStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries from the store
func (s *InMemoryAuthorizationStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for state, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, state)
		}
	}
}

// Size returns the number of entries in the store, expired ones included
func (s *InMemoryAuthorizationStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ automation.AuthorizationStore = (*InMemoryAuthorizationStore)(nil)
