package domain

// Phase is the coarse state of the quote feed.
type Phase int

const (
	// PhaseLoading is the initial phase, before the cache or the first fetch resolved.
	PhaseLoading Phase = iota

	// PhaseReady means a non-empty quote list is available, possibly stale.
	PhaseReady

	// PhaseEmpty means no quotes are available from either the cache or the source.
	PhaseEmpty
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// SyncState is an immutable snapshot of what the presentation layer shows.
// Transitions return a new value and never move back to PhaseLoading.
//
// State transitions:
//   - Loading → Ready: cache hit, or a fetch returned quotes
//   - Loading → Empty: a fetch returned nothing, or failed with nothing shown
//   - Ready/Empty → Ready/Empty: later fetches
type SyncState struct {
	phase      Phase
	quotes     QuoteList
	refreshing bool
}

// NewSyncState returns the initial loading state.
func NewSyncState() SyncState {
	return SyncState{phase: PhaseLoading}
}

// Phase returns the current phase.
func (s SyncState) Phase() Phase {
	return s.phase
}

// Quotes returns a copy of the displayed quotes. Nil unless the phase is Ready.
func (s SyncState) Quotes() QuoteList {
	return s.quotes.Clone()
}

// Len returns the number of displayed quotes.
func (s SyncState) Len() int {
	return len(s.quotes)
}

// Loading reports whether the full-screen loader should be shown.
func (s SyncState) Loading() bool {
	return s.phase == PhaseLoading
}

// Refreshing reports whether a user-triggered refresh is in flight.
func (s SyncState) Refreshing() bool {
	return s.refreshing
}

// WithCached shows cached quotes while still loading.
// It has no effect once the state resolved, so a late cache read never
// overwrites fresher data, and an empty list never leaves Loading.
func (s SyncState) WithCached(quotes QuoteList) SyncState {
	if s.phase != PhaseLoading || len(quotes) == 0 {
		return s
	}

	s.phase = PhaseReady
	s.quotes = quotes.Clone()

	return s
}

// WithFetched replaces the displayed quotes with a fresh list.
func (s SyncState) WithFetched(quotes QuoteList) SyncState {
	if len(quotes) == 0 {
		s.phase = PhaseEmpty
		s.quotes = nil

		return s
	}

	s.phase = PhaseReady
	s.quotes = quotes.Clone()

	return s
}

// WithFetchFailed resolves a pending load without data.
// Quotes already shown stay as they are.
func (s SyncState) WithFetchFailed() SyncState {
	if s.phase == PhaseLoading {
		s.phase = PhaseEmpty
	}

	return s
}

// WithRefreshing sets the refresh indicator.
func (s SyncState) WithRefreshing(refreshing bool) SyncState {
	s.refreshing = refreshing
	return s
}
