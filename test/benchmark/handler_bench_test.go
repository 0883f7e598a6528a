package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpadapter "github.com/jsamuelsen/quotefeed/internal/adapters/http"
	"github.com/jsamuelsen/quotefeed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/platform/config"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

// fixedFeed serves a settled state without a synchronizer behind it.
type fixedFeed struct {
	state domain.SyncState
}

func (f fixedFeed) State() domain.SyncState { return f.state }

func (f fixedFeed) Refresh(context.Context) error { return nil }

func readyFeed(n int) fixedFeed {
	quotes := make(domain.QuoteList, n)
	for i := range quotes {
		quotes[i] = domain.Quote{
			Text:   fmt.Sprintf("Quote number %d.", i+1),
			Author: fmt.Sprintf("Author %d", i+1),
		}
	}

	return fixedFeed{state: domain.NewSyncState().WithFetched(quotes)}
}

func stablePresenter() *app.Presenter {
	return app.NewPresenter(domain.StableColors{})
}

// setupHealthHandler creates a HealthHandler with a minimal registry for benchmarking.
func setupHealthHandler() *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2026-01-01T00:00:00Z")
	return handlers.NewHealthHandler(registry, buildInfo, readyFeed(50))
}

// BenchmarkLivenessHandler measures the performance of the liveness endpoint.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}

// BenchmarkReadinessHandler_WithChecks measures readiness with registered health checks.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	registry := ports.NewHealthRegistry()

	_ = registry.Register(&simpleHealthChecker{name: "zenquotes"})
	_ = registry.Register(&simpleHealthChecker{name: "sqlite"})

	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2026-01-01T00:00:00Z")
	handler := handlers.NewHealthHandler(registry, buildInfo, readyFeed(50))
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkListQuotes measures the list endpoint at the truncation limit.
func BenchmarkListQuotes(b *testing.B) {
	handler := handlers.NewQuoteHandler(readyFeed(domain.MaxQuotes), stablePresenter())

	for _, target := range []string{"/api/v1/quotes", "/api/v1/quotes?jump=middle"} {
		b.Run(target, func(b *testing.B) {
			req := httptest.NewRequest(http.MethodGet, target, http.NoBody)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				w := httptest.NewRecorder()
				c := createGinContext(w, req)
				handler.ListQuotes(c)
			}
		})
	}
}

// BenchmarkPresenter measures turning a state into a screen.
func BenchmarkPresenter(b *testing.B) {
	state := readyFeed(domain.MaxQuotes).state

	pickers := map[string]domain.ColorPicker{
		"random": domain.NewRandomColors(rand.New(rand.NewPCG(1, 2))),
		"stable": domain.StableColors{},
	}

	for name, picker := range pickers {
		b.Run(name, func(b *testing.B) {
			presenter := app.NewPresenter(picker)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_ = presenter.Present(state)
			}
		})
	}
}

// BenchmarkMiddlewareChain_Full measures a list request through every middleware.
func BenchmarkMiddlewareChain_Full(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	httpadapter.SetupRouter(router, httpadapter.NewDefaultRouterConfig(
		logger,
		&config.AppConfig{Name: "quotefeed", Version: "bench", Environment: "test"},
		setupHealthHandler(),
		handlers.NewQuoteHandler(readyFeed(domain.MaxQuotes), stablePresenter()),
	))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string {
	return s.name
}

func (s *simpleHealthChecker) Check(_ context.Context) error {
	return nil
}
