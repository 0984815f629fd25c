package ics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/feedstore"
	"github.com/starford/dagaz/internal/store"
)

// Importer synchronizes the feed import directory with the event store.
type Importer struct {
	db     store.EventStore
	feeds  feedstore.Provider
	logger *slog.Logger

	// PastHorizon/FutureHorizon bound the expansion window around "now".
	PastHorizon   time.Duration
	FutureHorizon time.Duration

	now func() time.Time
}

// NewImporter creates an Importer with the default expansion horizons
// (30 days back, 180 days ahead).
func NewImporter(db store.EventStore, feeds feedstore.Provider, logger *slog.Logger) *Importer {
	return &Importer{
		db:            db,
		feeds:         feeds,
		logger:        logger,
		PastHorizon:   30 * 24 * time.Hour,
		FutureHorizon: 180 * 24 * time.Hour,
		now:           time.Now,
	}
}

func (im *Importer) window() Window {
	now := im.now()
	return Window{Start: now.Add(-im.PastHorizon), End: now.Add(im.FutureHorizon)}
}

// SyncAll brings the store up to date with the import directory:
//   - new or changed .ics files are parsed, expanded, and swapped in
//   - feeds removed from disk have their events dropped
//
// Per-feed failures are logged and skipped so one bad feed does not block
// the rest.
func (im *Importer) SyncAll() error {
	files, err := im.feeds.List()
	if err != nil {
		return fmt.Errorf("ics: list feeds: %w", err)
	}

	known, err := im.db.FeedPaths()
	if err != nil {
		return fmt.Errorf("ics: known feeds: %w", err)
	}

	onDisk := make(map[string]struct{}, len(files))
	for _, f := range files {
		onDisk[f.Path] = struct{}{}

		stored, err := im.db.FeedChecksum(f.Path)
		if err != nil {
			im.logger.Warn("sync: checksum lookup failed", slog.String("feed", f.Path), slog.String("error", err.Error()))
			continue
		}
		if stored == f.Checksum {
			continue
		}
		if err := im.ImportFeed(f.Path); err != nil {
			im.logger.Warn("sync: import failed", slog.String("feed", f.Path), slog.String("error", err.Error()))
		}
	}

	// Drop feeds whose files disappeared.
	for _, p := range known {
		if _, ok := onDisk[p]; ok {
			continue
		}
		if err := im.db.DropSource(p); err != nil {
			im.logger.Warn("sync: drop failed", slog.String("feed", p), slog.String("error", err.Error()))
		} else {
			im.logger.Info("sync: removed stale feed", slog.String("feed", p))
		}
	}

	return nil
}

// ImportFeed parses and expands a single feed file and atomically replaces
// its events in the store.
func (im *Importer) ImportFeed(path string) error {
	data, err := im.feeds.Read(path)
	if err != nil {
		return err
	}

	parsed, err := Parse(data)
	if err != nil {
		return err
	}

	events, err := Expand(parsed, path, im.window())
	if err != nil {
		return err
	}

	if err := im.db.ReplaceSourceEvents(path, events); err != nil {
		return err
	}
	if err := im.db.SetFeedChecksum(path, checksum.Sum(data)); err != nil {
		return err
	}

	im.logger.Info("feed imported",
		slog.String("feed", path),
		slog.Int("events", len(events)))
	return nil
}

// RemoveFeed drops every event imported from the given feed.
func (im *Importer) RemoveFeed(path string) error {
	return im.db.DropSource(path)
}
