package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen/quotefeed/internal/adapters/clients"
	"github.com/jsamuelsen/quotefeed/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotefeed/internal/adapters/events"
	"github.com/jsamuelsen/quotefeed/internal/adapters/flags"
	"github.com/jsamuelsen/quotefeed/internal/adapters/storage"
	"github.com/jsamuelsen/quotefeed/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotefeed/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/platform/config"
	"github.com/jsamuelsen/quotefeed/internal/platform/logging"
	"github.com/jsamuelsen/quotefeed/internal/platform/telemetry"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

// services is the object graph shared by every command.
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
	cache     ports.Cache
	quotes    *acl.QuoteClient
	store     *storage.QuoteStore
	bus       *events.Bus
	flags     *flags.Static
	syncer    *app.QuoteSynchronizer
}

// newServices loads configuration and wires the adapters. Logs go to
// logOut so stdout stays free for the screen.
func newServices(ctx context.Context, opts *RootOptions, logOut io.Writer) (*services, error) {
	// 1. Load and validate configuration (fail fast)
	cfg, err := config.LoadFrom(opts.ConfigDir, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize logging
	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, logOut)
	logging.SetDefault(logger)

	// 3. Initialize telemetry (noop if disabled)
	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	s := &services{cfg: cfg, logger: logger, telemetry: tel}

	// 4. Open the cache store
	s.cache, err = openCache(ctx, &cfg.Storage)
	if err != nil {
		s.close(ctx)
		return nil, err
	}

	// 5. Create HTTP client for the quote source
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Source.BaseURL,
		ServiceName: cfg.Source.Name,
		Timeout:     cfg.Client.Timeout,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	// 6. Quote source adapter (ACL pattern) and cache slot
	s.quotes = acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: httpClient,
		Path:   cfg.Source.Path,
		Logger: logger,
	})

	s.store = storage.NewQuoteStore(storage.QuoteStoreConfig{
		Cache:  s.cache,
		Key:    cfg.Storage.Key,
		Logger: logger,
	})

	// 7. Events, flags and the synchronizer
	s.bus = events.NewBus(logger)
	s.flags = flags.NewStatic(cfg.Flags)

	s.syncer = app.NewQuoteSynchronizer(app.SynchronizerConfig{
		Source: s.quotes,
		Store:  s.store,
		Events: s.bus,
		Logger: logger,
	})

	return s, nil
}

func openCache(ctx context.Context, cfg *config.StorageConfig) (ports.Cache, error) {
	switch cfg.Driver {
	case config.StorageDriverMemory:
		return memory.New(), nil
	case config.StorageDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening cache store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// close releases everything newServices acquired. Errors are logged.
func (s *services) close(ctx context.Context) {
	if s.bus != nil {
		s.bus.Close()
	}

	if c, ok := s.cache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Error("cache store close error", slog.Any("error", err))
		}
	}

	if s.telemetry != nil {
		if err := s.telemetry.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}
}
