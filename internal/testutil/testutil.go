// Package testutil provides shared test helpers for setting up databases and preference files.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/habits/internal/layout"
	"github.com/starford/habits/internal/prefs"
	"github.com/starford/habits/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "habits-test-*.db")
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

// TestPrefs creates a preferences store backed by a file in a temp directory.
func TestPrefs(t *testing.T) *prefs.Store {
	t.Helper()
	p, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.yaml"), layout.DefaultWindow())
	if err != nil {
		t.Fatal(err)
	}
	return p
}
