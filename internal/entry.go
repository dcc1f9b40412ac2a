// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/habits/internal/api"
	"github.com/starford/habits/internal/mcpserver"
	"github.com/starford/habits/internal/prefs"
	"github.com/starford/habits/internal/schedule"
	"github.com/starford/habits/internal/sse"
	"github.com/starford/habits/internal/store"
)

// runtime is everything a command needs once configuration is applied.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	db     *store.DB
	prefs  *prefs.Store
}

func setup(opts []Option) (*runtime, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("prefs_path", cfg.Display.PrefsPath),
		slog.String("timezone", cfg.App.Location().String()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	window, err := cfg.Display.Window()
	if err != nil {
		return nil, fmt.Errorf("display window: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Display.PrefsPath), 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	p, err := prefs.Open(cfg.Display.PrefsPath, window)
	if err != nil {
		// Bad entries are skipped; the rest still load.
		if p == nil {
			return nil, fmt.Errorf("init prefs: %w", err)
		}
		logger.Warn("some display preferences were ignored", slog.String("error", err.Error()))
	}

	if cfg.SQLite.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, db: db, prefs: p}, nil
}

func (rt *runtime) service(opts ...schedule.Option) *schedule.Service {
	opts = append([]schedule.Option{schedule.WithLocation(rt.cfg.App.Location())}, opts...)
	return schedule.NewService(rt.db, rt.prefs, opts...)
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	cfg, logger := rt.cfg, rt.logger

	// SSE broker.
	broker := sse.NewBroker(cfg.SSE.StatsThrottle, sse.WithKeepAlive(cfg.SSE.KeepAlive))
	defer broker.Close()

	svc := rt.service(schedule.WithChangeHook(broker.PublishChange))
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, cfg.Auth.User, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := rt.db.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload display preferences edited on disk.
	g.Go(func() error {
		err := rt.prefs.Watch(gCtx, logger, settingsReloaded(broker))
		if err != nil {
			logger.Warn("prefs watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

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

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// settingsReloaded tells clients to refetch display settings after a
// reload that applied at least the valid entries. Read or parse failures
// keep the previous windows and stay silent.
func settingsReloaded(b *sse.Broker) func(error) {
	return func(err error) {
		if prefs.Applied(err) {
			b.Publish(sse.Event{Type: SettingsEvent, Data: map[string]string{}})
		}
	}
}

// SettingsEvent is broadcast when the preferences file is reloaded.
const SettingsEvent = "settings.updated"

// errShutdown cancels the group so the watcher exits with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdin/stdout. Logs must not share
// stdout with the protocol, so callers should pass WithLogOutput.
func RunMCP(_ context.Context, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	rt.logger.Info("Starting MCP server on stdio", slog.String("user", rt.cfg.Auth.User))
	return mcpserver.New(rt.service(), rt.cfg.Auth.User).ServeStdio()
}

// RenderDay writes the positioned day view for date as indented JSON.
// An empty date means today in the configured zone.
func RenderDay(ctx context.Context, out io.Writer, date string, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	if date == "" {
		date = time.Now().In(rt.cfg.App.Location()).Format("2006-01-02")
	}
	view, err := rt.service().DayView(ctx, rt.cfg.Auth.User, date, nil)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
