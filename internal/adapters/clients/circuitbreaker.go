package clients

import (
	"sync"
	"time"
)

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed is the normal operating state. Requests are allowed through.
	StateClosed State = iota

	// StateOpen is the failing state. Requests are rejected without being sent.
	StateOpen

	// StateHalfOpen lets a single trial request through to test recovery.
	StateHalfOpen
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures int

	// Timeout is how long the circuit stays open before allowing a trial request.
	Timeout time.Duration

	// HalfOpenLimit is the number of consecutive successful trial requests
	// required to close the circuit.
	HalfOpenLimit int
}

// Snapshot is a point-in-time view of the breaker, used by health checks.
type Snapshot struct {
	State       State
	Failures    int
	LastFailure time.Time
	RetryAfter  time.Duration
}

// CircuitBreaker stops calling a downstream service that keeps failing.
// It never retries on its own; it only decides whether a caller's single
// attempt may go out.
//
// State transitions:
//   - Closed -> Open: after MaxFailures consecutive failures
//   - Open -> HalfOpen: on the first Allow after Timeout has passed
//   - HalfOpen -> Closed: after HalfOpenLimit consecutive successful trial requests
//   - HalfOpen -> Open: on any failed trial request
type CircuitBreaker struct {
	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	trialInFlight bool
	lastFailure   time.Time
	cfg           CircuitBreakerConfig

	onStateChange func(from, to State)

	// now is overridable for testing.
	now func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration.
// Non-positive limits are treated as 1.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.HalfOpenLimit = max(cfg.HalfOpenLimit, 1)

	return &CircuitBreaker{
		state: StateClosed,
		cfg:   cfg,
		now:   time.Now,
	}
}

// OnStateChange sets a callback invoked synchronously, outside the breaker's
// lock, after every state change.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onStateChange = fn
}

// Allow reports whether a request may be sent. In the half-open state only
// one trial request is in flight at a time.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var (
		allowed    bool
		transition func()
	)

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.cfg.Timeout {
			transition = cb.transitionTo(StateHalfOpen)
			cb.trialInFlight = true
			allowed = true
		}
	case StateHalfOpen:
		if !cb.trialInFlight {
			cb.trialInFlight = true
			allowed = true
		}
	}

	cb.mu.Unlock()
	notify(transition)

	return allowed
}

// RecordSuccess records a successful request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var transition func()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.trialInFlight = false
		cb.successes++

		if cb.successes >= cb.cfg.HalfOpenLimit {
			transition = cb.transitionTo(StateClosed)
		}
	case StateOpen:
	}

	cb.mu.Unlock()
	notify(transition)
}

// RecordFailure records a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var transition func()

	cb.lastFailure = cb.now()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			transition = cb.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		cb.trialInFlight = false
		transition = cb.transitionTo(StateOpen)
	case StateOpen:
	}

	cb.mu.Unlock()
	notify(transition)
}

// Reset closes the circuit and clears its counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()

	cb.trialInFlight = false
	transition := cb.transitionTo(StateClosed)
	cb.failures = 0

	cb.mu.Unlock()
	notify(transition)
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// RetryAfter returns how long an open circuit keeps rejecting requests,
// or zero if requests are currently allowed.
func (cb *CircuitBreaker) RetryAfter() time.Duration {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.retryAfterLocked()
}

// Snapshot returns the breaker's current counters.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Snapshot{
		State:       cb.state,
		Failures:    cb.failures,
		LastFailure: cb.lastFailure,
		RetryAfter:  cb.retryAfterLocked(),
	}
}

func (cb *CircuitBreaker) retryAfterLocked() time.Duration {
	if cb.state != StateOpen {
		return 0
	}

	return max(cb.cfg.Timeout-cb.now().Sub(cb.lastFailure), 0)
}

// transitionTo changes the state and returns the pending notification.
// Must be called with the lock held.
func (cb *CircuitBreaker) transitionTo(next State) func() {
	if cb.state == next {
		return nil
	}

	prev := cb.state
	cb.state = next
	cb.failures = 0
	cb.successes = 0

	if fn := cb.onStateChange; fn != nil {
		return func() { fn(prev, next) }
	}

	return nil
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
