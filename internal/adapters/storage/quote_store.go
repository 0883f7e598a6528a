// Package storage persists the quote list in a single key-value slot.
// The backing ports.Cache is chosen by configuration (see the sqlite and
// memory subpackages).
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/platform/logging"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

// DefaultKey is the slot the quote list lives under.
const DefaultKey = "quotes"

var errNotArray = errors.New("cache record is not a JSON array")

// QuoteStoreConfig contains configuration for the quote store.
type QuoteStoreConfig struct {
	// Cache is the key-value backend. Required.
	Cache ports.Cache

	// Key is the slot name. Defaults to DefaultKey.
	Key string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteStore implements ports.QuoteStore on top of a ports.Cache.
// The record is a JSON array of {"q","a"} objects, the same shape the
// remote API delivers.
type QuoteStore struct {
	cache  ports.Cache
	key    string
	logger *slog.Logger
}

// NewQuoteStore creates a quote store.
// Panics if Cache is nil. Defaults logger to slog.Default() if nil.
func NewQuoteStore(cfg QuoteStoreConfig) *QuoteStore {
	if cfg.Cache == nil {
		panic("QuoteStore: Cache is required")
	}

	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteStore{
		cache:  cfg.Cache,
		key:    key,
		logger: logger,
	}
}

// cachedQuote is the persisted form of a quote.
type cachedQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Key returns the slot name.
func (s *QuoteStore) Key() string {
	return s.key
}

// Read implements ports.QuoteStore.
func (s *QuoteStore) Read(ctx context.Context) domain.CacheReadResult {
	raw, err := s.cache.Get(ctx, s.key)
	if domain.IsNotFound(err) {
		s.logger.Log(ctx, logging.LevelTrace, "cache slot empty", slog.String("key", s.key))
		return domain.CacheAbsentResult()
	}

	if err != nil {
		return domain.CacheFailedResult(domain.NewCacheError(domain.CacheOpRead, s.key, err))
	}

	var records []cachedQuote
	if err := json.Unmarshal(raw, &records); err != nil {
		return domain.CacheFailedResult(domain.NewCacheError(domain.CacheOpRead, s.key, err))
	}

	if records == nil {
		return domain.CacheFailedResult(domain.NewCacheError(domain.CacheOpRead, s.key, errNotArray))
	}

	quotes := make(domain.QuoteList, len(records))
	for i, r := range records {
		quotes[i] = domain.Quote{Text: r.Q, Author: r.A}
	}

	s.logger.Log(ctx, logging.LevelTrace, "cache slot read",
		slog.String("key", s.key),
		slog.Int("count", len(quotes)),
		slog.Int("bytes", len(raw)))

	return domain.CacheHitResult(quotes)
}

// Write implements ports.QuoteStore. It replaces the slot; nothing is merged.
func (s *QuoteStore) Write(ctx context.Context, quotes domain.QuoteList) domain.CacheWriteResult {
	records := make([]cachedQuote, len(quotes))
	for i, q := range quotes {
		records[i] = cachedQuote{Q: q.Text, A: q.Author}
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return domain.CacheWriteResult{Err: domain.NewCacheError(domain.CacheOpWrite, s.key, err)}
	}

	if err := s.cache.Set(ctx, s.key, raw); err != nil {
		return domain.CacheWriteResult{Err: domain.NewCacheError(domain.CacheOpWrite, s.key, err)}
	}

	s.logger.Log(ctx, logging.LevelTrace, "cache slot written",
		slog.String("key", s.key),
		slog.Int("count", len(quotes)),
		slog.Int("bytes", len(raw)))

	return domain.CacheWriteResult{}
}

// Clear empties the slot. Only the explicit maintenance command calls it;
// the synchronizer never deletes the cache.
func (s *QuoteStore) Clear(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.key); err != nil {
		return domain.NewCacheError(domain.CacheOpWrite, s.key, err)
	}

	s.logger.InfoContext(ctx, "cache slot cleared", slog.String("key", s.key))

	return nil
}
