// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// QuoteSource fetches a batch of quotes from the remote quote API.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map external errors to domain errors
//   - Return quotes in source order, untruncated; the caller applies the cap
type QuoteSource interface {
	// FetchQuotes issues one request for the current batch.
	// Returns domain.ErrUnavailable if the service is unreachable or answers non-2xx,
	// and domain.ErrValidation if the payload cannot be decoded.
	FetchQuotes(ctx context.Context) ([]domain.Quote, error)
}

// QuoteStore is the single-slot local cache for the last fetched quote list.
// Operations never return errors; failures come back inside the result so
// callers decide explicitly to ignore them.
type QuoteStore interface {
	// Read returns the persisted list, CacheAbsent if nothing was written,
	// or CacheFailed if the slot is unreadable or corrupt.
	Read(ctx context.Context) domain.CacheReadResult

	// Write replaces the persisted list.
	Write(ctx context.Context, quotes domain.QuoteList) domain.CacheWriteResult
}

// EventPublisher defines the contract for publishing domain events.
// Implementations may use message queues, event buses, or other mechanisms.
type EventPublisher interface {
	// Publish sends an event to the configured destination.
	// Returns domain.ErrUnavailable if the messaging system is unreachable.
	Publish(ctx context.Context, event Event) error
}

// Event represents a domain event that can be published.
type Event interface {
	// EventType returns the type identifier for routing.
	EventType() string

	// Payload returns the event data for serialization.
	Payload() any
}

// Cache defines the contract for a persistent key-value store.
// Implementations may use SQLite, a file, or an in-memory map.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value, replacing any previous value for the key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
