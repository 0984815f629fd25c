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
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/starford/dagaz/internal/api"
	"github.com/starford/dagaz/internal/calview"
	"github.com/starford/dagaz/internal/eventservice"
	"github.com/starford/dagaz/internal/feedstore"
	"github.com/starford/dagaz/internal/ics"
	"github.com/starford/dagaz/internal/sse"
	"github.com/starford/dagaz/internal/store"
	"github.com/starford/dagaz/internal/voiceservice"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("feeds_dir", cfg.Feeds.Dir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure feed directory exists.
	if err := os.MkdirAll(cfg.Feeds.Dir, 0o755); err != nil {
		return fmt.Errorf("create feeds dir: %w", err)
	}

	// Initialize feed storage.
	feeds, err := feedstore.NewFS(cfg.Feeds.Dir)
	if err != nil {
		return fmt.Errorf("init feed storage: %w", err)
	}

	// Initialize SQLite store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Run initial feed sync.
	importer := ics.NewImporter(db, feeds, logger)
	if err := importer.SyncAll(); err != nil {
		logger.Warn("initial feed sync failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build services and router.
	events := eventservice.NewService(db)
	voice := voiceservice.NewService(events, db)

	hours := calview.WorkingHours{
		Start: cfg.Calendar.WorkingHoursStart,
		End:   cfg.Calendar.WorkingHoursEnd,
	}
	slotStep := time.Duration(cfg.Calendar.SlotStepMinutes) * time.Minute

	h := api.NewHandler(events, voice, broker, hours, slotStep)
	fh := api.NewFeedHandler(feeds, importer)
	apiRouter := api.NewRouter(h, fh, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the feed directory and push SSE notifications on change.
	g.Go(func() error {
		err := ics.Watch(gCtx, importer, cfg.Feeds.Dir, logger, func(kind, feed string) {
			broker.Publish(sse.Event{
				Type: "feed." + kind,
				Data: map[string]string{"path": feed},
			})
		})
		if err != nil {
			logger.Warn("feed watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Periodic full feed sync, in case watcher events are missed.
	var sched *cron.Cron
	if cfg.Feeds.SyncCron != "" {
		sched = cron.New()
		_, err := sched.AddFunc(cfg.Feeds.SyncCron, func() {
			if err := importer.SyncAll(); err != nil {
				logger.Warn("scheduled feed sync failed", slog.String("error", err.Error()))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid feed sync schedule %q: %w", cfg.Feeds.SyncCron, err)
		}
		sched.Start()
	}

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

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		if sched != nil {
			<-sched.Stop().Done()
		}

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
