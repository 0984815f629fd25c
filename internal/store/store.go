// Package store provides the SQLite-backed event store with optional FTS5
// full-text search over event titles, descriptions, and locations.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/dagaz/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	start_time    DATETIME NOT NULL,
	end_time      DATETIME NOT NULL,
	all_day       INTEGER NOT NULL DEFAULT 0,
	location      TEXT NOT NULL DEFAULT '',
	event_type    TEXT NOT NULL DEFAULT 'meeting',
	priority      TEXT NOT NULL DEFAULT 'medium',
	status        TEXT NOT NULL DEFAULT 'confirmed',
	voice_created INTEGER NOT NULL DEFAULT 0,
	source        TEXT NOT NULL DEFAULT '',
	uid           TEXT NOT NULL DEFAULT '',
	instance_key  TEXT NOT NULL DEFAULT '',
	revision      TEXT NOT NULL DEFAULT '',
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_time);
CREATE INDEX IF NOT EXISTS idx_events_end ON events(end_time);
CREATE INDEX IF NOT EXISTS idx_events_source ON events(source);
CREATE UNIQUE INDEX IF NOT EXISTS idx_events_occurrence
	ON events(source, uid, instance_key) WHERE source != '';

CREATE TABLE IF NOT EXISTS feed_files (
	path      TEXT PRIMARY KEY,
	checksum  TEXT NOT NULL DEFAULT '',
	synced_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS voice_commands (
	id         TEXT PRIMARY KEY,
	transcript TEXT NOT NULL DEFAULT '',
	intent     TEXT NOT NULL DEFAULT '',
	confidence REAL NOT NULL DEFAULT 0,
	action     TEXT NOT NULL DEFAULT '',
	success    INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voice_created ON voice_commands(created_at);
`

// DB wraps a sql.DB with calendar-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// VoiceStats aggregates voice command usage over a window.
type VoiceStats struct {
	TotalCommands      int            `json:"total_commands"`
	SuccessfulCommands int            `json:"successful_commands"`
	AverageConfidence  float64        `json:"average_confidence"`
	IntentDistribution map[string]int `json:"intent_distribution"`
	DailyUsage         map[string]int `json:"daily_usage"`
}

// EventStore defines the storage operations consumed by the service layers.
// Consumers depend on this interface rather than the concrete *DB type.
type EventStore interface {
	UpsertEvent(ev models.Event) error
	GetEvent(id string) (models.Event, error)
	DeleteEvent(id string) error
	ListEvents(rangeStart, rangeEnd time.Time) ([]models.Event, error)
	SearchEvents(q string, limit int) ([]models.Event, error)
	ReplaceSourceEvents(source string, events []models.Event) error
	DropSource(source string) error
	FeedChecksum(path string) (string, error)
	SetFeedChecksum(path, sum string) error
	FeedPaths() ([]string, error)
	RecordVoiceCommand(cmd models.VoiceCommand) error
	VoiceHistory(limit, offset int) ([]models.VoiceCommand, int, error)
	VoiceUsage(since time.Time) (VoiceStats, error)
	Close() error
}

// Verify *DB satisfies EventStore at compile time.
var _ EventStore = (*DB)(nil)
