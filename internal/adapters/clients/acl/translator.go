package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotefeed/internal/adapters/clients"
	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// MaxResponseBytes caps how much of a success body is decoded.
const MaxResponseBytes = 4 << 20

var (
	// errNilBody is returned by DecodeResponse when there is nothing to read.
	errNilBody = errors.New("response body is nil")

	errTrailingData = errors.New("unexpected data after JSON value")
)

// BaseAdapter provides common functionality for ACL adapters.
// Embed this in your service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request and returns the response body.
// The path should be an absolute path starting with "/".
// On success the caller must close the body; on failure a mapped domain error is returned.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading. The body must hold exactly one JSON value;
// decode failures and trailing data are domain.ErrValidation: the service
// answered, but with something we cannot use.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, domain.NewValidationError("response", errNilBody.Error())
	}
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(io.LimitReader(body, MaxResponseBytes))

	var result T
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w",
			domain.NewValidationError("response", err.Error()))
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding response: %w",
			domain.NewValidationError("response", errTrailingData.Error()))
	}

	return &result, nil
}

// Translator is a function type that translates an external DTO to a domain type.
// The function should validate the external data and return a domain error
// if validation fails.
type Translator[External any, Domain any] func(ext *External) (Domain, error)

// TranslateSlice applies a translator function to a slice of external DTOs.
// If any translation fails, returns the first error encountered.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) ([]D, error) {
	result := make([]D, 0, len(items))

	for i := range items {
		translated, err := translate(&items[i])
		if err != nil {
			return nil, fmt.Errorf("translating item %d: %w", i, err)
		}

		result = append(result, translated)
	}

	return result, nil
}
