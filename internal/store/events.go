package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

const eventColumns = `id, title, description, start_time, end_time, all_day,
	location, event_type, priority, status, voice_created,
	source, uid, instance_key, revision, updated_at`

// UpsertEvent inserts or replaces an event and its FTS entry within a
// transaction.
func (db *DB) UpsertEvent(ev models.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := upsertEventTx(tx, ev); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertEventTx(tx *sql.Tx, ev models.Event) error {
	_, err := tx.Exec(`
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title         = excluded.title,
			description   = excluded.description,
			start_time    = excluded.start_time,
			end_time      = excluded.end_time,
			all_day       = excluded.all_day,
			location      = excluded.location,
			event_type    = excluded.event_type,
			priority      = excluded.priority,
			status        = excluded.status,
			voice_created = excluded.voice_created,
			source        = excluded.source,
			uid           = excluded.uid,
			instance_key  = excluded.instance_key,
			revision      = excluded.revision,
			updated_at    = excluded.updated_at
	`, ev.ID, ev.Title, ev.Description, ev.StartTime.UTC(), ev.EndTime.UTC(), ev.AllDay,
		ev.Location, ev.EventType, ev.Priority, ev.Status, ev.VoiceCreated,
		ev.Source, ev.UID, ev.InstanceKey, ev.Revision, ev.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("store: upsert event: %w", err)
	}
	return ftsUpsert(tx, ev)
}

// GetEvent returns a single event by ID, or apperr.ErrNotFound.
func (db *DB) GetEvent(id string) (models.Event, error) {
	row := db.conn.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("store: get event: %w", err)
	}
	return ev, nil
}

// DeleteEvent removes an event and its FTS entry. Deleting a missing event
// returns apperr.ErrNotFound.
func (db *DB) DeleteEvent(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	ftsDelete(tx, id)
	return tx.Commit()
}

// ListEvents returns events intersecting the inclusive range, ordered by
// start time.
func (db *DB) ListEvents(rangeStart, rangeEnd time.Time) ([]models.Event, error) {
	rows, err := db.conn.Query(`
		SELECT `+eventColumns+`
		FROM events
		WHERE start_time <= ? AND end_time >= ?
		ORDER BY start_time
	`, rangeEnd.UTC(), rangeStart.UTC())
	if err != nil {
		return nil, fmt.Errorf("store: list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ReplaceSourceEvents atomically swaps every event of a feed source for the
// given set. Used by the ICS importer so a re-import never leaves a feed
// half-applied.
func (db *DB) ReplaceSourceEvents(source string, events []models.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := dropSourceTx(tx, source); err != nil {
		return err
	}
	for _, ev := range events {
		if err := upsertEventTx(tx, ev); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DropSource removes every event imported from the given feed source along
// with its checksum record.
func (db *DB) DropSource(source string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := dropSourceTx(tx, source); err != nil {
		return err
	}
	_, _ = tx.Exec(`DELETE FROM feed_files WHERE path = ?`, source)
	return tx.Commit()
}

func dropSourceTx(tx *sql.Tx, source string) error {
	rows, err := tx.Query(`SELECT id FROM events WHERE source = ?`, source)
	if err != nil {
		return fmt.Errorf("store: select source events: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		ftsDelete(tx, id)
	}
	if _, err := tx.Exec(`DELETE FROM events WHERE source = ?`, source); err != nil {
		return fmt.Errorf("store: drop source: %w", err)
	}
	return nil
}

// FeedChecksum returns the stored checksum for a feed file, or empty string
// when the feed has never been imported.
func (db *DB) FeedChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM feed_files WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: feed checksum: %w", err)
	}
	return cs, nil
}

// FeedPaths returns every feed file path known to the store.
func (db *DB) FeedPaths() ([]string, error) {
	rows, err := db.conn.Query(`SELECT path FROM feed_files`)
	if err != nil {
		return nil, fmt.Errorf("store: feed paths: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetFeedChecksum records the checksum of an imported feed file.
func (db *DB) SetFeedChecksum(path, sum string) error {
	_, err := db.conn.Exec(`
		INSERT INTO feed_files (path, checksum, synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET checksum = excluded.checksum, synced_at = excluded.synced_at
	`, path, sum, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: set feed checksum: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (models.Event, error) {
	var ev models.Event
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.StartTime, &ev.EndTime, &ev.AllDay,
		&ev.Location, &ev.EventType, &ev.Priority, &ev.Status, &ev.VoiceCreated,
		&ev.Source, &ev.UID, &ev.InstanceKey, &ev.Revision, &ev.UpdatedAt)
	return ev, err
}

func collectEvents(rows *sql.Rows) ([]models.Event, error) {
	var out []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
