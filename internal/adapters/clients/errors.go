// Package clients provides HTTP client adapters for downstream services.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// These are distinct from domain errors: they represent infrastructure failures
// that the ACL adapters translate to domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	// The request was not sent.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed is returned when the request could not complete,
	// e.g. connection refused, DNS failure or timeout. The transport error is wrapped.
	ErrRequestFailed = errors.New("request failed")
)
