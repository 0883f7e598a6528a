// Package events provides an in-process implementation of ports.EventPublisher.
package events

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/jsamuelsen/quotefeed/internal/ports"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus closed")

// Bus fans published events out to subscribers over buffered channels.
// Publish never blocks: an event for a subscriber whose buffer is full is
// dropped for that subscriber and logged.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	closed bool
	logger *slog.Logger
}

type subscription struct {
	ch    chan ports.Event
	types []string
}

// wants reports whether the subscription filters in the event type.
func (s *subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// NewBus creates an empty bus. Defaults logger to slog.Default() if nil.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bus{
		subs:   make(map[uint64]*subscription),
		logger: logger,
	}
}

// Subscribe registers a subscriber with the given buffer size. With no
// types it receives every event; otherwise only the listed event types.
// The returned cancel func unregisters and closes the channel; it is
// safe to call more than once.
func (b *Bus) Subscribe(buffer int, types ...string) (<-chan ports.Event, func()) {
	ch := make(chan ports.Event, max(buffer, 0))

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = &subscription{ch: ch, types: slices.Clone(types)}

	var once sync.Once

	return ch, func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// Publish implements ports.EventPublisher.
func (b *Bus) Publish(ctx context.Context, event ports.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	for id, sub := range b.subs {
		if !sub.wants(event.EventType()) {
			continue
		}

		select {
		case sub.ch <- event:
		default:
			b.logger.WarnContext(ctx, "event dropped, subscriber buffer full",
				slog.String("event_type", event.EventType()),
				slog.Uint64("subscriber", id))
		}
	}

	return nil
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Close unregisters every subscriber and closes their channels.
// Later Publish calls return ErrClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
