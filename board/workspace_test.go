package board

import (
	"context"
	"errors"
	"testing"
)

func TestWorkspaceOpenSeedsRosters(t *testing.T) {
	store := newFakeStore()
	ws := NewWorkspace(Stores{Default: store}, newMemCache())
	ctx := context.Background()

	if err := ws.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	flush(t, ws)

	if n := len(ws.Team.Items()); n != 5 {
		t.Errorf("Expected 5 team members, got %d", n)
	}
	if n := len(ws.Office.Items()); n != 5 {
		t.Errorf("Expected 5 office agents, got %d", n)
	}
	if n := len(ws.Tasks.Items()); n != 0 {
		t.Errorf("Expected no tasks, got %d", n)
	}

	want := []string{"calendar", "content", "memory", "office", "tasks", "team"}
	got := ws.Names()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestWorkspaceTasksOverride(t *testing.T) {
	shared, tasks := newFakeStore(), newFakeStore()
	tasks.set("tasks.json", `[{"id":"1","title":"Remote task","status":"todo","assignee":"BRO","createdAt":1}]`)
	shared.set("tasks.json", `[]`)

	ws := NewWorkspace(Stores{Default: shared, Tasks: tasks}, newMemCache())
	if err := ws.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	flush(t, ws)

	items := ws.Tasks.Items()
	if len(items) != 1 || items[0].Title != "Remote task" {
		t.Errorf("Expected the task board to read its own store, got %+v", items)
	}
}

func TestWorkspaceOpenReportsFailures(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = ErrNotConfigured

	ws := NewWorkspace(Stores{Default: store}, newMemCache())
	err := ws.Open(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
	if n := len(ws.Team.Items()); n != 0 {
		t.Errorf("Expected no defaults after a failed load, got %d", n)
	}
}

func TestRegistryUnknownBoard(t *testing.T) {
	ws := NewWorkspace(Stores{Default: newFakeStore()}, newMemCache())
	if _, err := ws.Get("nope"); !errors.Is(err, ErrUnknownBoard) {
		t.Errorf("Expected ErrUnknownBoard, got %v", err)
	}
}
