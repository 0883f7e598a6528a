package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefeed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotefeed/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotefeed/internal/platform/config"
	"github.com/jsamuelsen/quotefeed/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests. A refresh waits for the quote
// client, so this sits just above the default client timeout.
const DefaultRequestTimeout = 35 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler handles the quote feed endpoints. Nil registers none.
	QuoteHandler *handlers.QuoteHandler

	// Timeout is the API request timeout. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - base logger for the request
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - correlate a refresh with upstream calls
//  5. OpenTelemetry - tracing and metrics
//  6. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): health endpoints, no timeout
//   - /api/v1/ (public API): quote feed endpoints with a request deadline
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	name := "quotefeed"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		name = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Recovery(),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middlewares(name)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.Register(engine)
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.Timeout(cfg.Timeout))

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(),
		middleware.ContextLogger(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.Register(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	quoteHandler *handlers.QuoteHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		QuoteHandler:  quoteHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
