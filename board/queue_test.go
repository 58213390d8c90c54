package board

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/CrowderSoup/workbench/models"
)

func TestQueuedSnapshotsSupersede(t *testing.T) {
	store := newFakeStore()
	c := newTaskBoard(t, store, newMemCache())
	ctx := context.Background()

	store.mu.Lock()
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 1)
	store.mu.Unlock()

	c.Add(ctx, models.Task{Title: "A"})
	<-store.entered

	if !c.Status().Syncing {
		t.Error("Expected the board to report a save in flight")
	}

	// both land in the queue while the first save is blocked
	c.Add(ctx, models.Task{Title: "B"})
	c.Add(ctx, models.Task{Title: "C"})

	close(store.block)
	flush(t, c)

	if n := store.replaceCount(); n != 2 {
		t.Errorf("Expected 2 saves, got %d", n)
	}

	var stored []models.Task
	if err := json.Unmarshal([]byte(store.doc("tasks.json")), &stored); err != nil {
		t.Fatalf("Stored document is not valid JSON: %v", err)
	}
	if len(stored) != 3 || stored[0].Title != "C" {
		t.Errorf("Expected the latest snapshot to win, got %+v", stored)
	}
	if c.Status().Syncing {
		t.Error("Expected the board to be idle after Flush")
	}
	if c.Status().LastSynced == nil {
		t.Error("Expected a last synced time")
	}
}

func TestFlushHonoursContext(t *testing.T) {
	store := newFakeStore()
	c := newTaskBoard(t, store, newMemCache())

	store.mu.Lock()
	store.block = make(chan struct{})
	store.mu.Unlock()
	defer close(store.block)

	c.Add(context.Background(), models.Task{Title: "stuck"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Flush(ctx); err == nil {
		t.Error("Expected Flush to give up on a cancelled context")
	}
}
