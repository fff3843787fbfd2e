// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/mdview/internal/api"
	"github.com/starford/mdview/internal/docservice"
	"github.com/starford/mdview/internal/mcpserver"
	"github.com/starford/mdview/internal/metrics"
	"github.com/starford/mdview/internal/storage"
	"github.com/starford/mdview/internal/tree"
)

// Run starts the HTTP server with the given options and blocks until ctx is
// cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, store, err := app.setup()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := newService(cfg, store, logger)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           NewHandler(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools over stdin/stdout until the client
// disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	logger, store, err := app.setup()
	if err != nil {
		return err
	}
	defer store.Close()

	srv := mcpserver.New(newService(app.config, store, logger), app.version)
	logger.Info("MCP server starting on stdio")
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// NewHandler builds the root HTTP handler: API under /api, health probes
// under /health and Prometheus metrics at /metrics.
func NewHandler(cfg *Config, svc *docservice.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(api.CORSMiddleware(cfg.CORS.AllowedOrigins))

	r.Mount("/health", api.NewHealthRouter(svc))
	r.Mount("/api", api.NewRouter(svc))
	r.Handle("/metrics", metrics.Handler())

	return r
}

func newApplication(opts []Option) (*application, error) {
	app := &application{
		version:   "dev",
		logOutput: os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// setup initialises logging and opens the content root.
func (a *application) setup() (*slog.Logger, *storage.FS, error) {
	cfg := a.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("docs_root", cfg.Docs.Root),
		slog.String("extension", cfg.Docs.Extension),
		slog.String("sort", cfg.Docs.Sort),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure content directory exists.
	if err := os.MkdirAll(cfg.Docs.Root, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create docs root: %w", err)
	}

	store, err := storage.NewFS(cfg.Docs.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	return logger, store, nil
}

func newService(cfg *Config, store storage.Provider, logger *slog.Logger) *docservice.Service {
	return docservice.NewService(store, logger,
		tree.WithExtension(cfg.Docs.Extension),
		tree.WithSort(tree.SortMode(cfg.Docs.Sort)),
	)
}
