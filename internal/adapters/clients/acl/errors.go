package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quotefeed/internal/adapters/clients"
	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// maxErrorBodyBytes caps how much of an error body is read for its message.
const maxErrorBodyBytes = 64 << 10

// MapHTTPError maps a failed call to a domain error. The quote feed has no
// use for finer distinctions: anything that keeps a usable batch from
// arriving is domain.ErrUnavailable, with the status and the upstream's own
// words, when it gave any, kept as the reason.
//
// resp may be nil for transport errors. Returns nil for a 2xx response.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	switch {
	case errors.Is(clientErr, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))
	case errors.Is(clientErr, clients.ErrRequestFailed):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s: %v", operation, clientErr))
	case clientErr != nil:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, clientErr))
	case resp == nil:
		return domain.NewUnavailableError(serviceName, "no response received")
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	}

	return domain.NewUnavailableError(serviceName, statusReason(resp, operation))
}

// statusReason reads as "HTTP 429: <message> (retry after 30)".
func statusReason(resp *http.Response, operation string) string {
	msg := upstreamMessage(resp.Body)
	if msg == "" {
		msg = defaultReason(resp.StatusCode, operation)
	}

	reason := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, msg)

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		if after := resp.Header.Get("Retry-After"); after != "" {
			reason += fmt.Sprintf(" (retry after %s)", after)
		}
	}

	return reason
}

func defaultReason(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "endpoint not found"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "access denied"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return operation + " failed"
	}
}

// upstreamMessage pulls a readable reason out of an error body, or returns
// "". The quote API words some refusals as a one-entry quote batch, such as
// a rate limit notice in "q". Proxies in front of it answer with
// {"error":{"message":...}} or {"message":...}.
func upstreamMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}

	var batch []zenQuote
	if json.Unmarshal(raw, &batch) == nil {
		if len(batch) == 0 {
			return ""
		}

		return strings.TrimSpace(batch[0].Q)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &envelope) != nil {
		return ""
	}

	if envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	return envelope.Message
}
