package ics

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SyncCallback is called after a watcher-driven store change.
// kind is one of "imported", "removed".
type SyncCallback func(kind string, feed string)

// Watch starts an fsnotify watcher on the feed import root and keeps the
// event store in sync until ctx is cancelled. It calls cb (if non-nil)
// after each successful store mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events schedule a debounced full sync, since fsnotify only
// reports the old path.
func Watch(ctx context.Context, im *Importer, importRoot string, logger *slog.Logger, cb SyncCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, importRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", importRoot))

	// syncTimer debounces full syncs triggered by renames and new dirs.
	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(200 * time.Millisecond)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			if syncErr := im.SyncAll(); syncErr != nil {
				logger.Warn("watcher: sync failed", slog.String("error", syncErr.Error()))
			} else if cb != nil {
				cb("imported", "")
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to the watcher and sync whatever .ics
			// files arrived with them.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					scheduleSync()
					continue
				}
			}

			// Only .ics files from here on.
			if !strings.HasSuffix(absPath, ".ics") {
				continue
			}

			rel, relErr := filepath.Rel(importRoot, absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if impErr := im.ImportFeed(rel); impErr != nil {
					logger.Warn("watcher: import failed", slog.String("feed", rel), slog.String("error", impErr.Error()))
					continue
				}
				logger.Debug("watcher: imported", slog.String("feed", rel))
				if cb != nil {
					cb("imported", rel)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := im.RemoveFeed(rel); delErr != nil {
					logger.Warn("watcher: remove failed", slog.String("feed", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: removed", slog.String("feed", rel))
				if cb != nil {
					cb("removed", rel)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. Drop the old
				// feed now and schedule a sync to pick up the new path.
				if delErr := im.RemoveFeed(rel); delErr != nil {
					logger.Warn("watcher: rename drop failed", slog.String("feed", rel), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old removed", slog.String("feed", rel))
					if cb != nil {
						cb("removed", rel)
					}
				}
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
