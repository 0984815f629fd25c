//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/starford/dagaz/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback on the events table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ models.Event) error {
	// Searchable columns already live in the events table.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// SearchEvents performs a LIKE-based search (fallback when FTS5 is not
// compiled in).
func (db *DB) SearchEvents(query string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT `+eventColumns+`
		FROM events
		WHERE title LIKE ? OR description LIKE ? OR location LIKE ?
		ORDER BY start_time
		LIMIT ?
	`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}
