package store

import (
	"fmt"
	"time"

	"github.com/starford/dagaz/internal/models"
)

// RecordVoiceCommand persists the outcome of one processed utterance.
func (db *DB) RecordVoiceCommand(cmd models.VoiceCommand) error {
	_, err := db.conn.Exec(`
		INSERT INTO voice_commands (id, transcript, intent, confidence, action, success, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, cmd.ID, cmd.Transcript, cmd.Intent, cmd.Confidence, cmd.Action, cmd.Success, cmd.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("store: record voice command: %w", err)
	}
	return nil
}

// VoiceHistory returns the most recent voice commands, newest first, plus
// the total count.
func (db *DB) VoiceHistory(limit, offset int) ([]models.VoiceCommand, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM voice_commands`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: voice history count: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT id, transcript, intent, confidence, action, success, created_at
		FROM voice_commands
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: voice history: %w", err)
	}
	defer rows.Close()

	var out []models.VoiceCommand
	for rows.Next() {
		var c models.VoiceCommand
		if err := rows.Scan(&c.ID, &c.Transcript, &c.Intent, &c.Confidence, &c.Action, &c.Success, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// VoiceUsage aggregates command counts, success, confidence, intent
// distribution, and per-day usage since the given instant.
func (db *DB) VoiceUsage(since time.Time) (VoiceStats, error) {
	stats := VoiceStats{
		IntentDistribution: map[string]int{},
		DailyUsage:         map[string]int{},
	}

	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(success), 0),
		       COALESCE(AVG(confidence), 0)
		FROM voice_commands
		WHERE created_at >= ?
	`, since.UTC()).Scan(&stats.TotalCommands, &stats.SuccessfulCommands, &stats.AverageConfidence)
	if err != nil {
		return stats, fmt.Errorf("store: voice usage totals: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT intent, COUNT(*)
		FROM voice_commands
		WHERE created_at >= ?
		GROUP BY intent
	`, since.UTC())
	if err != nil {
		return stats, fmt.Errorf("store: voice usage intents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var intent string
		var n int
		if err := rows.Scan(&intent, &n); err != nil {
			return stats, err
		}
		stats.IntentDistribution[intent] = n
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	dayRows, err := db.conn.Query(`
		SELECT date(created_at), COUNT(*)
		FROM voice_commands
		WHERE created_at >= ?
		GROUP BY date(created_at)
	`, since.UTC())
	if err != nil {
		return stats, fmt.Errorf("store: voice usage days: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var day string
		var n int
		if err := dayRows.Scan(&day, &n); err != nil {
			return stats, err
		}
		stats.DailyUsage[day] = n
	}
	return stats, dayRows.Err()
}
