// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture: it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate the cache-then-remote quote sync
//   - Publish state transitions for presenters
//   - Handle cross-cutting concerns (logging, metrics, tracing)
//
// What does NOT belong here:
//   - HTTP or terminal specifics (that's adapters)
//   - Storage encoding (that's the store adapter)
//   - State transition rules (that's the domain layer)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/quotefeed/internal/app"

// Sync outcomes recorded on the quotes.sync.total counter.
const (
	syncResultSuccess    = "success"
	syncResultFailed     = "failed"
	syncResultSuperseded = "superseded"
)

// QuoteSynchronizer owns the quote list shown to the user. It loads the
// cached list first, replaces it with the remote one, and writes fresh
// results back to the cache.
//
// Every remote sync takes a generation number when it starts. Only the
// result of the newest sync is applied; older results are dropped and
// reported as domain.ErrSuperseded.
//
// Example usage:
//
//	syncer := app.NewQuoteSynchronizer(app.SynchronizerConfig{
//	    Source: quoteClient,
//	    Store:  quoteStore,
//	    Events: bus,
//	    Logger: logger,
//	})
//	err := syncer.Initialize(ctx)
type QuoteSynchronizer struct {
	source ports.QuoteSource
	store  ports.QuoteStore
	events ports.EventPublisher
	logger *slog.Logger
	tracer trace.Tracer
	syncs  metric.Int64Counter

	// commitMu serializes commits so that events and cache writes
	// happen in the same order as state transitions.
	commitMu sync.Mutex

	mu         sync.Mutex
	state      domain.SyncState
	generation uint64
	refreshes  int
}

// SynchronizerConfig contains the synchronizer's dependencies.
type SynchronizerConfig struct {
	Source ports.QuoteSource
	Store  ports.QuoteStore
	Events ports.EventPublisher
	Logger *slog.Logger
}

// NewQuoteSynchronizer creates a synchronizer in the Loading phase.
// It panics if Source or Store is nil.
func NewQuoteSynchronizer(cfg SynchronizerConfig) *QuoteSynchronizer {
	if cfg.Source == nil {
		panic("app: quote source is required")
	}

	if cfg.Store == nil {
		panic("app: quote store is required")
	}

	events := cfg.Events
	if events == nil {
		events = discardPublisher{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	meter := otel.Meter(instrumentationName)

	syncs, err := meter.Int64Counter(
		"quotes.sync.total",
		metric.WithDescription("Total number of remote quote syncs by result"),
	)
	if err != nil {
		syncs, _ = noop.Meter{}.Int64Counter("quotes.sync.total")
	}

	return &QuoteSynchronizer{
		source: cfg.Source,
		store:  cfg.Store,
		events: events,
		logger: logger.With(slog.String("component", "app.QuoteSynchronizer")),
		tracer: otel.Tracer(instrumentationName),
		syncs:  syncs,
		state:  domain.NewSyncState(),
	}
}

// State returns the current state snapshot.
func (s *QuoteSynchronizer) State() domain.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Initialize shows the cached list, if any, then syncs from the remote
// source. A cache failure is logged and otherwise ignored. The returned
// error is the error of the remote sync.
func (s *QuoteSynchronizer) Initialize(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "QuoteSynchronizer.Initialize")
	defer span.End()

	s.LoadCached(ctx)

	return s.SyncFromRemote(ctx)
}

// LoadCached shows the cached list while the state is still Loading.
// It reports whether the cached list was applied. An absent, empty or
// unreadable cache leaves the state untouched.
func (s *QuoteSynchronizer) LoadCached(ctx context.Context) bool {
	cached := s.store.Read(ctx)

	switch cached.Status {
	case domain.CacheHit:
		applied := false
		s.commit(ctx, 0, func(st domain.SyncState) (domain.SyncState, bool) {
			if !st.Loading() || len(cached.Quotes) == 0 {
				return st, false
			}

			applied = true

			return st.WithCached(cached.Quotes), true
		}, nil)

		s.logger.DebugContext(ctx, "loaded cached quotes",
			slog.Int("count", len(cached.Quotes)),
			slog.Bool("applied", applied),
		)

		return applied
	case domain.CacheFailed:
		s.logger.WarnContext(ctx, "ignoring unreadable quote cache",
			slog.Any("error", cached.Err),
		)
	case domain.CacheAbsent:
		s.logger.DebugContext(ctx, "no cached quotes")
	}

	return false
}

// SyncFromRemote fetches the current batch, truncates it to
// domain.MaxQuotes and replaces the shown list. On failure the shown list
// is kept, a FetchFailedEvent is published, and an error matching
// domain.ErrFetchFailed is returned. If a newer sync started while this
// one was in flight, the result is dropped and domain.ErrSuperseded is
// returned.
func (s *QuoteSynchronizer) SyncFromRemote(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "QuoteSynchronizer.SyncFromRemote")
	defer span.End()

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	span.SetAttributes(attribute.Int64("quotes.sync.generation", int64(gen))) //nolint:gosec // Counter stays small

	fetched, err := s.source.FetchQuotes(ctx)
	if err != nil {
		return s.fail(ctx, span, gen, err)
	}

	list := domain.NewQuoteList(fetched)

	applied := s.commit(ctx, gen, func(st domain.SyncState) (domain.SyncState, bool) {
		return st.WithFetched(list), true
	}, func(ctx context.Context) {
		s.writeThrough(ctx, list)
	})
	if !applied {
		return s.superseded(ctx, span, gen)
	}

	s.syncs.Add(ctx, 1, metric.WithAttributes(attribute.String("result", syncResultSuccess)))
	span.SetAttributes(attribute.Int("quotes.count", len(list)))

	s.logger.InfoContext(ctx, "synced quotes",
		slog.Int("received", len(fetched)),
		slog.Int("kept", len(list)),
	)

	return nil
}

// Refresh runs a user-initiated sync. The refreshing indicator stays on
// until every overlapping refresh has finished, whatever the outcome.
func (s *QuoteSynchronizer) Refresh(ctx context.Context) error {
	s.commit(ctx, 0, func(st domain.SyncState) (domain.SyncState, bool) {
		s.refreshes++
		if s.refreshes > 1 {
			return st, false
		}

		return st.WithRefreshing(true), true
	}, nil)

	defer s.commit(context.WithoutCancel(ctx), 0, func(st domain.SyncState) (domain.SyncState, bool) {
		s.refreshes--
		if s.refreshes > 0 {
			return st, false
		}

		return st.WithRefreshing(false), true
	}, nil)

	return s.SyncFromRemote(ctx)
}

func (s *QuoteSynchronizer) fail(ctx context.Context, span trace.Span, gen uint64, cause error) error {
	applied := s.commit(ctx, gen, func(st domain.SyncState) (domain.SyncState, bool) {
		return st.WithFetchFailed(), true
	}, func(ctx context.Context) {
		s.publish(ctx, FetchFailedEvent{Alert: domain.FetchFailedAlert, Err: cause})
	})
	if !applied {
		return s.superseded(ctx, span, gen)
	}

	s.syncs.Add(ctx, 1, metric.WithAttributes(attribute.String("result", syncResultFailed)))
	span.RecordError(cause)
	span.SetStatus(codes.Error, "fetch failed")

	s.logger.ErrorContext(ctx, "failed to sync quotes",
		slog.Any("error", cause),
	)

	return domain.NewFetchFailedError(cause)
}

func (s *QuoteSynchronizer) superseded(ctx context.Context, span trace.Span, gen uint64) error {
	s.syncs.Add(ctx, 1, metric.WithAttributes(attribute.String("result", syncResultSuperseded)))
	span.SetAttributes(attribute.Bool("quotes.sync.superseded", true))

	s.logger.DebugContext(ctx, "dropping superseded sync result",
		slog.Uint64("generation", gen),
	)

	return fmt.Errorf("sync generation %d: %w", gen, domain.ErrSuperseded)
}

// commit applies fn to the state unless gen is non-zero and a newer sync
// has started. When fn reports a change, a StateChangedEvent is published
// and then after runs, both while holding commitMu.
func (s *QuoteSynchronizer) commit(
	ctx context.Context,
	gen uint64,
	fn func(domain.SyncState) (domain.SyncState, bool),
	after func(context.Context),
) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if gen != 0 && gen != s.generation {
		s.mu.Unlock()
		return false
	}

	next, changed := fn(s.state)
	s.state = next
	s.mu.Unlock()

	if changed {
		s.publish(ctx, StateChangedEvent{State: next})
	}

	if after != nil {
		after(ctx)
	}

	return true
}

func (s *QuoteSynchronizer) writeThrough(ctx context.Context, list domain.QuoteList) {
	if res := s.store.Write(ctx, list); !res.OK() {
		s.logger.WarnContext(ctx, "failed to cache quotes",
			slog.Any("error", res.Err),
		)
	}
}

func (s *QuoteSynchronizer) publish(ctx context.Context, event ports.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			slog.String("event_type", event.EventType()),
			slog.Any("error", err),
		)
	}
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, ports.Event) error { return nil }
