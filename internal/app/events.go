package app

import "github.com/jsamuelsen/quotefeed/internal/domain"

// Event type identifiers published by the synchronizer.
const (
	EventStateChanged = "quotes.state_changed"
	EventFetchFailed  = "quotes.fetch_failed"
)

// StateChangedEvent carries the state snapshot after a transition.
type StateChangedEvent struct {
	State domain.SyncState
}

// EventType implements ports.Event.
func (StateChangedEvent) EventType() string { return EventStateChanged }

// Payload implements ports.Event.
func (e StateChangedEvent) Payload() any { return e.State }

// FetchFailedEvent is published once per failed sync that was not superseded.
// Err is for logging only and must not be shown to the user.
type FetchFailedEvent struct {
	Alert domain.Alert
	Err   error
}

// EventType implements ports.Event.
func (FetchFailedEvent) EventType() string { return EventFetchFailed }

// Payload implements ports.Event.
func (e FetchFailedEvent) Payload() any { return e.Alert }
