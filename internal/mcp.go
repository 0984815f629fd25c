package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/dagaz/internal/eventservice"
	"github.com/starford/dagaz/internal/feedstore"
	"github.com/starford/dagaz/internal/ics"
	"github.com/starford/dagaz/internal/mcpserver"
	"github.com/starford/dagaz/internal/store"
	"github.com/starford/dagaz/internal/voiceservice"
)

// RunMCP serves the MCP tool interface on stdio. Logs go to stderr since
// stdout carries the MCP transport.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Feeds.Dir, 0o755); err != nil {
		return fmt.Errorf("create feeds dir: %w", err)
	}

	feeds, err := feedstore.NewFS(cfg.Feeds.Dir)
	if err != nil {
		return fmt.Errorf("init feed storage: %w", err)
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	importer := ics.NewImporter(db, feeds, logger)
	if err := importer.SyncAll(); err != nil {
		logger.Warn("initial feed sync failed", slog.String("error", err.Error()))
	}

	events := eventservice.NewService(db)
	voice := voiceservice.NewService(events, db)

	srv := mcpserver.New(events, voice, feeds, importer)

	logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}
