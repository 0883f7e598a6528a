// Package memory provides an in-process implementation of ports.Cache.
// Contents do not survive a restart; use it for tests and ephemeral runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// HealthCheckName is the name the store registers under for readiness checks.
const HealthCheckName = "quote-cache"

// Store is a mutex-guarded map of byte slices.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

// Get implements ports.Cache. The returned slice is a copy.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	return slices.Clone(value), nil
}

// Set implements ports.Cache.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = slices.Clone(value)

	return nil
}

// Delete implements ports.Cache.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return HealthCheckName
}

// Check implements ports.HealthChecker. An in-memory store is always reachable.
func (s *Store) Check(_ context.Context) error {
	return nil
}
