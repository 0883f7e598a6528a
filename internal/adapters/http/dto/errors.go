// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"net/http"

	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// ErrorCode is the machine-readable kind of an API error.
type ErrorCode string

const (
	ErrorCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrorCodeValidation  ErrorCode = "VALIDATION_ERROR"
	ErrorCodeBadRequest  ErrorCode = "BAD_REQUEST"
	ErrorCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout     ErrorCode = "TIMEOUT"
	ErrorCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// Status is the HTTP status sent with the code. Unknown codes are 500s.
func (c ErrorCode) Status() int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes what went wrong. Title is only set when the error
// is shown to readers as an alert, such as a failed quote sync.
type ErrorDetail struct {
	Code    ErrorCode         `json:"code"`
	Title   string            `json:"title,omitempty"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// NewErrorResponse creates an error response with the given code and message.
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	}
}

// NewAlertResponse renders a reader-facing alert as a 503 body, the same
// title and message the CLI prints.
func NewAlertResponse(alert domain.Alert) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    ErrorCodeUnavailable,
			Title:   alert.Title,
			Message: alert.Message,
		},
	}
}

// WithDetails attaches per-field messages.
func (e *ErrorResponse) WithDetails(details map[string]string) *ErrorResponse {
	e.Error.Details = details
	return e
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}
