// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotefeed/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single API request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID ties a user action, such as pressing refresh, to
	// every quote API call it causes. Callers may send their own.
	HeaderCorrelationID = "X-Correlation-ID"
)

// maxIDLength bounds caller-supplied IDs before they reach logs and headers.
const maxIDLength = 128

// RequestID accepts a well-formed X-Request-ID or assigns a UUID, echoes it
// on the response and records it for the context logger and upstream fetches.
func RequestID() gin.HandlerFunc {
	return assignID(HeaderRequestID, ContextWithRequestID, logging.WithRequestID)
}

// CorrelationID does the same for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return assignID(HeaderCorrelationID, ContextWithCorrelationID, logging.WithCorrelationID)
}

func assignID(header string, enrich ...func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if !validID(id) {
			id = uuid.New().String()
		}

		c.Header(header, id)

		ctx := c.Request.Context()
		for _, fn := range enrich {
			ctx = fn(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// validID rejects empty, oversized and non-printable IDs.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for _, r := range id {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
