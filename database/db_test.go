package database

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/CrowderSoup/workbench/board"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "workbench.db")

	db, err := Open(slog.New(slog.NewTextHandler(io.Discard, nil)), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("Database file was not created")
	}
	return db
}

func TestDocumentStore(t *testing.T) {
	db := newTestDB(t)

	store := NewDocumentStore(db)
	ctx := context.Background()

	if _, err := store.Fetch(ctx, "tasks.json"); !errors.Is(err, board.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}

	if err := store.Replace(ctx, "tasks.json", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := store.Replace(ctx, "tasks.json", []byte(`[]`)); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}

	data, err := store.Fetch(ctx, "tasks.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected the last write to win, got %s", data)
	}
}

func TestCache(t *testing.T) {
	db := newTestDB(t)

	cache := NewCache(db)

	if _, ok, err := cache.Get("team-members"); err != nil || ok {
		t.Fatalf("Expected a miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Set("team-members", []byte(`[1]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Set("team-members", []byte(`[2]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, ok, err := cache.Get("team-members")
	if err != nil || !ok {
		t.Fatalf("Expected a hit, got ok=%v err=%v", ok, err)
	}
	if string(data) != "[2]" {
		t.Errorf("Expected [2], got %s", data)
	}
}

func TestWorkspaceOnSQLite(t *testing.T) {
	db := newTestDB(t)

	ctx := context.Background()
	ws := board.NewWorkspace(board.Stores{Default: NewDocumentStore(db)}, NewCache(db))
	if err := ws.Open(ctx); err != nil {
		t.Fatalf("Open workspace failed: %v", err)
	}
	if err := ws.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	reopened := board.NewWorkspace(board.Stores{Default: NewDocumentStore(db)}, NewCache(db))
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if n := len(reopened.Team.Items()); n != 5 {
		t.Errorf("Expected the seeded team to persist, got %d members", n)
	}
}
