package acl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotefeed/internal/adapters/clients"
	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/platform/logging"
)

const (
	// DefaultQuotesPath is the zenquotes endpoint returning a batch of quotes.
	DefaultQuotesPath = "/api/quotes"

	fetchOperation = "fetch quotes"
)

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the quote API host.
	Client *clients.Client

	// Path is the batch endpoint. Defaults to DefaultQuotesPath.
	Path string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteSource against the zenquotes API.
// It also implements ports.HealthChecker by reporting circuit breaker state.
type QuoteClient struct {
	BaseAdapter

	path   string
	logger *slog.Logger
}

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.Path
	if path == "" {
		path = DefaultQuotesPath
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		path:        path,
		logger:      logger,
	}
}

// zenQuote is one entry of the zenquotes batch payload. Missing fields
// decode as empty strings. Never exposed outside the ACL.
type zenQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
	H string `json:"h"`
}

// FetchQuotes issues a single GET for the quote batch.
// Implements ports.QuoteSource.
func (c *QuoteClient) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	c.logger.DebugContext(ctx, "fetching quotes", slog.String("path", c.path))

	body, err := c.Get(ctx, c.path, fetchOperation)
	if err != nil {
		return nil, err
	}

	payload, err := DecodeResponse[[]*zenQuote](body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fetchOperation, err)
	}

	// A bare JSON null decodes without error but is not a list.
	if *payload == nil {
		return nil, domain.NewValidationError("response", "expected a JSON array of quotes")
	}

	quotes, err := TranslateSlice(*payload, translateQuote)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fetchOperation, err)
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated quote batch",
		slog.Int("count", len(quotes)))

	return quotes, nil
}

// translateQuote converts one payload entry to a domain Quote. An entry
// with an empty text or author is shown as it is; only a JSON null in
// place of an object is rejected. The pre-rendered HTML form is dropped.
func translateQuote(entry **zenQuote) (domain.Quote, error) {
	ext := *entry
	if ext == nil {
		return domain.Quote{}, domain.NewValidationError("entry", "must be a quote object")
	}

	return domain.Quote{
		Text:   ext.Q,
		Author: ext.A,
	}, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check reports the source unhealthy while its circuit is open.
// It sends no request, so it never spends the remote rate limit.
// Implements ports.HealthChecker.
func (c *QuoteClient) Check(_ context.Context) error {
	client := c.Client()
	if client.CircuitState() != clients.StateOpen {
		return nil
	}

	if client.CircuitEnforced() {
		return fmt.Errorf("%w: retry in %s", clients.ErrCircuitOpen, client.CircuitRetryAfter().Round(time.Second))
	}

	return fmt.Errorf("%w: recent fetches failed", clients.ErrCircuitOpen)
}
