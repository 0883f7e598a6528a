package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/platform/logging"
)

// RequestIDHeader is read when no trace is recorded for the request.
const RequestIDHeader = "X-Request-ID"

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	// A failed sync shows the fixed alert text; the cause is only logged.
	case domain.IsFetchFailed(err):
		return http.StatusServiceUnavailable, NewAlertResponse(domain.FetchFailedAlert)

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(
			ErrorCodeNotFound,
			err.Error(),
		)

	case domain.IsValidation(err):
		resp := NewErrorResponse(
			ErrorCodeValidation,
			err.Error(),
		)

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"service temporarily unavailable",
		)

	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// GetTraceID returns the OpenTelemetry trace ID for the request, falling
// back to the request ID when no span is recording.
func GetTraceID(c *gin.Context) string {
	if c.Request != nil {
		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
			return span.SpanContext().TraceID().String()
		}
	}

	if v, ok := c.Get("trace_id"); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}

	if c.Request != nil {
		return c.Request.Header.Get(RequestIDHeader)
	}

	return ""
}

// HandleError writes an error response for err, logging 5xx causes.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			"status", status,
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors that don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code ErrorCode, message string) {
	errResp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.JSON(code.Status(), errResp)
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := NewErrorResponse(ErrorCodeValidation, "request validation failed").
		WithDetails(fieldErrors).
		WithTraceID(GetTraceID(c))

	c.JSON(http.StatusBadRequest, errResp)
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code ErrorCode, message string) {
	errResp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(code.Status(), errResp)
}
