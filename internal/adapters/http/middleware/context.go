package middleware

import (
	"context"
	"net/http"
)

// UpstreamIDs are the identifiers the quote client forwards with every
// fetch it makes on behalf of an API request, so a refresh can be traced
// from the feed's access log to the quote API.
type UpstreamIDs struct {
	RequestID     string
	CorrelationID string
}

type upstreamIDsKey struct{}

// UpstreamIDsFromContext returns the IDs stored by the RequestID and
// CorrelationID middleware. A fetch started outside a request, such as the
// CLI or the startup sync, has none.
func UpstreamIDsFromContext(ctx context.Context) UpstreamIDs {
	if ctx == nil {
		return UpstreamIDs{}
	}

	ids, _ := ctx.Value(upstreamIDsKey{}).(UpstreamIDs)

	return ids
}

// SetHeaders writes the non-empty IDs onto an outgoing request.
func (ids UpstreamIDs) SetHeaders(h http.Header) {
	if ids.RequestID != "" {
		h.Set(HeaderRequestID, ids.RequestID)
	}

	if ids.CorrelationID != "" {
		h.Set(HeaderCorrelationID, ids.CorrelationID)
	}
}

// ContextWithRequestID records the request ID for upstream fetches.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	ids := UpstreamIDsFromContext(ctx)
	ids.RequestID = id

	return context.WithValue(ctx, upstreamIDsKey{}, ids)
}

// ContextWithCorrelationID records the correlation ID for upstream fetches.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	ids := UpstreamIDsFromContext(ctx)
	ids.CorrelationID = id

	return context.WithValue(ctx, upstreamIDsKey{}, ids)
}
