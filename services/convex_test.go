package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/CrowderSoup/workbench/board"
)

// fakeConvex keeps documents in memory behind the query and mutation endpoints.
func fakeConvex(t *testing.T) *httptest.Server {
	var mu sync.Mutex
	docs := map[string]string{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req convexRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Invalid request: %v", err)
		}
		name, _ := req.Args["name"].(string)

		mu.Lock()
		defer mu.Unlock()

		switch {
		case r.URL.Path == "/api/query" && req.Path == convexGetDocument:
			content, ok := docs[name]
			if !ok {
				w.Write([]byte(`{"status":"success","value":null}`))
				return
			}
			value, _ := json.Marshal(content)
			w.Write([]byte(`{"status":"success","value":` + string(value) + `}`))
		case r.URL.Path == "/api/mutation" && req.Path == convexReplaceDocument:
			docs[name], _ = req.Args["content"].(string)
			w.Write([]byte(`{"status":"success","value":null}`))
		default:
			w.Write([]byte(`{"status":"error","errorMessage":"unknown function"}`))
		}
	}))
}

func TestConvexStoreRoundTrip(t *testing.T) {
	srv := fakeConvex(t)
	defer srv.Close()

	store := NewConvexStore(srv.URL, 0)
	ctx := context.Background()

	if _, err := store.Fetch(ctx, "tasks.json"); !errors.Is(err, board.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}
	if err := store.Replace(ctx, "tasks.json", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	data, err := store.Fetch(ctx, "tasks.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != `[{"id":"1"}]` {
		t.Errorf("Unexpected content %s", data)
	}
}

func TestConvexStoreErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","errorMessage":"Server Error"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	if _, err := NewConvexStore(srv.URL, 0).Fetch(ctx, "tasks.json"); !errors.Is(err, ErrConvexFunction) {
		t.Errorf("Expected ErrConvexFunction, got %v", err)
	}
	if _, err := NewConvexStore("", 0).Fetch(ctx, "tasks.json"); !errors.Is(err, board.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}
