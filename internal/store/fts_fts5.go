//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/starford/dagaz/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS events_fts USING fts5(
			id UNINDEXED,
			title,
			description,
			location,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, ev models.Event) error {
	_, _ = tx.Exec(`DELETE FROM events_fts WHERE id = ?`, ev.ID)
	_, err := tx.Exec(`INSERT INTO events_fts (id, title, description, location) VALUES (?, ?, ?, ?)`,
		ev.ID, ev.Title, ev.Description, ev.Location)
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM events_fts WHERE id = ?`, id)
}

// SearchEvents performs an FTS5 search over titles, descriptions, and
// locations, returning matching events ordered by relevance.
func (db *DB) SearchEvents(query string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT `+eventColumns+`
		FROM events
		WHERE id IN (
			SELECT id FROM events_fts WHERE events_fts MATCH ? ORDER BY rank LIMIT ?
		)
		ORDER BY start_time
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}
