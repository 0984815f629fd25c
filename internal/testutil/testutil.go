// Package testutil provides shared test helpers for setting up databases
// and feed import directories.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/dagaz/internal/feedstore"
	"github.com/starford/dagaz/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestFeedDir creates a temporary feed import directory with a
// feedstore.Provider.
func TestFeedDir(t *testing.T) (string, feedstore.Provider) {
	t.Helper()
	feedDir := t.TempDir()
	feeds, err := feedstore.NewFS(feedDir)
	if err != nil {
		t.Fatal(err)
	}
	return feedDir, feeds
}
