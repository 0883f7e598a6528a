//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefeed/internal/adapters/clients"
	"github.com/jsamuelsen/quotefeed/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotefeed/internal/adapters/events"
	"github.com/jsamuelsen/quotefeed/internal/adapters/flags"
	httpadapter "github.com/jsamuelsen/quotefeed/internal/adapters/http"
	"github.com/jsamuelsen/quotefeed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotefeed/internal/adapters/storage"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/platform/config"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// zenBatch builds a zenquotes payload with n entries.
func zenBatch(n int) string {
	type entry struct {
		Q string `json:"q"`
		A string `json:"a"`
		H string `json:"h"`
	}

	batch := make([]entry, n)
	for i := range batch {
		batch[i] = entry{
			Q: fmt.Sprintf("Quote number %d.", i+1),
			A: fmt.Sprintf("Author %d", i+1),
			H: fmt.Sprintf("<blockquote>Quote number %d.</blockquote>", i+1),
		}
	}

	data, _ := json.Marshal(batch)

	return string(data)
}

// quoteAPI fakes the remote quote API. Its answer can be changed between
// requests; delay holds every response back.
type quoteAPI struct {
	*httptest.Server

	mu         sync.Mutex
	status     int
	body       string
	delay      time.Duration
	lastHeader http.Header

	calls atomic.Int32
}

func newQuoteAPI() *quoteAPI {
	api := &quoteAPI{status: http.StatusOK, body: zenBatch(3)}

	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.calls.Add(1)

		api.mu.Lock()
		status, body, delay := api.status, api.body, api.delay
		api.lastHeader = r.Header.Clone()
		api.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if r.URL.Path != "/api/quotes" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))

	return api
}

func (a *quoteAPI) respond(status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.status, a.body = status, body
}

func (a *quoteAPI) serveQuotes(n int) {
	a.respond(http.StatusOK, zenBatch(n))
}

// header returns the headers of the most recent request.
func (a *quoteAPI) header() http.Header {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.lastHeader
}

func (a *quoteAPI) fail() {
	a.respond(http.StatusInternalServerError, `{"error":"boom"}`)
}

func (a *quoteAPI) setDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.delay = d
}

// testClientConfig returns a client config for the fake quote API.
func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "zenquotes",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 1,
		},
		Transport: config.TransportConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
		Logger: discardLogger(),
	}
}

// stack is the quote feed wired the way the serve command wires it, over
// a caller-supplied cache.
type stack struct {
	api    *quoteAPI
	cache  ports.Cache
	client *clients.Client
	quotes *acl.QuoteClient
	store  *storage.QuoteStore
	bus    *events.Bus
	syncer *app.QuoteSynchronizer
	router *gin.Engine
}

func newStack(api *quoteAPI, cache ports.Cache) (*stack, error) {
	logger := discardLogger()

	client, err := clients.New(testClientConfig(api.URL))
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	s := &stack{
		api:    api,
		cache:  cache,
		client: client,
		quotes: acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Logger: logger}),
		store:  storage.NewQuoteStore(storage.QuoteStoreConfig{Cache: cache, Logger: logger}),
		bus:    events.NewBus(logger),
	}

	s.syncer = app.NewQuoteSynchronizer(app.SynchronizerConfig{
		Source: s.quotes,
		Store:  s.store,
		Events: s.bus,
		Logger: logger,
	})

	registry := ports.NewHealthRegistry()
	if err := registry.Register(s.quotes); err != nil {
		return nil, err
	}

	if hc, ok := cache.(ports.HealthChecker); ok {
		if err := registry.Register(hc); err != nil {
			return nil, err
		}
	}

	presenter := app.NewPresenter(app.ColorPickerFor(context.Background(),
		flags.NewStatic(map[string]string{ports.FlagStableQuoteColors: "true"})))

	s.router = gin.New()
	httpadapter.SetupRouter(s.router, httpadapter.NewDefaultRouterConfig(
		logger,
		&config.AppConfig{Name: "quotefeed", Version: "test", Environment: "test"},
		handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now"), s.syncer),
		handlers.NewQuoteHandler(s.syncer, presenter),
	))

	return s, nil
}

func (s *stack) close() {
	s.bus.Close()

	if c, ok := s.cache.(io.Closer); ok {
		_ = c.Close()
	}
}
