// Package http exposes the quote feed over HTTP using Gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefeed/internal/platform/config"
)

// Server serves the quote feed API until its context ends.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	config     *config.ServerConfig
	logger     *slog.Logger
}

// New creates the server. Routes are registered on Engine before Run.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(maxBodySize(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		config: cfg,
		logger: logger,
	}
}

// Engine returns the underlying Gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfig {
	return s.config
}

// Listen binds the configured address. Port 0 picks a free port, which
// Addr then reports. Run calls Listen itself when it has not been called.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("binding quote feed to %s: %w", s.httpServer.Addr, err)
	}

	s.listener = ln

	return nil
}

// Addr returns the bound address once listening, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.httpServer.Addr
}

// Run serves requests until ctx is done, then waits up to ShutdownTimeout
// for in-flight requests. A refresh holds its request open while the quote
// API answers, so the drain covers it.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	if s.config.WriteTimeout > 0 && s.config.WriteTimeout < DefaultRequestTimeout {
		s.logger.Warn("write timeout is shorter than a refresh may take",
			slog.Duration("write_timeout", s.config.WriteTimeout),
			slog.Duration("request_timeout", DefaultRequestTimeout),
		)
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	s.logger.Info("quote feed listening",
		slog.String("addr", s.Addr()),
		slog.String("quotes", "/api/v1/quotes"),
		slog.String("health", "/-/ready"),
	)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving quote feed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("draining quote feed requests",
		slog.Duration("timeout", s.config.ShutdownTimeout),
	)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("draining quote feed: %w", err)
	}

	s.logger.Info("quote feed stopped")

	return nil
}

// maxBodySize returns middleware that limits the request body size.
func maxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
