package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/CrowderSoup/workbench/board"
	"github.com/CrowderSoup/workbench/models"
	"github.com/gorilla/mux"
)

// BoardHandler serves the CRUD endpoints of every board.
type BoardHandler struct {
	workspace *board.Workspace
	log       *slog.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewBoardHandler(workspace *board.Workspace, log *slog.Logger, timeout time.Duration) *BoardHandler {
	return &BoardHandler{
		workspace: workspace,
		log:       log,
		timeout:   timeout,
		now:       time.Now,
	}
}

func (h *BoardHandler) board(w http.ResponseWriter, r *http.Request) (board.Board, bool) {
	b, err := h.workspace.Get(mux.Vars(r)["board"])
	if err != nil {
		writeErr(w, err)
		return nil, false
	}
	return b, true
}

// ListBoards returns the sync status of every board.
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	var out []board.Status
	for _, b := range h.workspace.All() {
		out = append(out, b.Status())
	}
	writeJSON(w, map[string]any{"boards": out}, http.StatusOK)
}

// List returns the records of one board. The discriminator of the board can be
// used as a filter (?status=todo, ?stage=idea, ...), and the memory board
// accepts a search query in ?q=.
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	var items any
	switch {
	case b.Name() == board.MemoryBoard && q.Get("q") != "":
		items = models.SearchMemory(h.workspace.Memory.Items(), q.Get("q"))
	case b.GroupField() != "":
		items = b.List(q.Get(b.GroupField()))
	default:
		items = b.List("")
	}

	writeJSON(w, map[string]any{
		"board":  b.Name(),
		"items":  items,
		"status": b.Status(),
	}, http.StatusOK)
}

func (h *BoardHandler) Columns(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{"board": b.Name(), "columns": b.Columns()}, http.StatusOK)
}

func (h *BoardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{"board": b.Name(), "stats": b.Stats()}, http.StatusOK)
}

// Add creates a record from a draft. Drafts without a title are dropped
// silently with 204.
func (h *BoardHandler) Add(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, added, err := b.AddJSON(r.Context(), body)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !added {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, map[string]any{"item": rec}, http.StatusCreated)
}

// Update merges the request body into the record.
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if !b.Has(id) {
		writeErr(w, board.ErrNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, updated, err := b.PatchJSON(r.Context(), id, body)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !updated {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, map[string]any{"item": rec}, http.StatusOK)
}

// Delete removes a record. The caller confirms with ?confirm=true.
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}

	confirm := board.Declined
	if strings.EqualFold(r.URL.Query().Get("confirm"), "true") {
		confirm = board.Confirmed
	}

	deleted, err := b.Delete(r.Context(), mux.Vars(r)["id"], confirm)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !deleted {
		writeErr(w, board.ErrNotFound)
		return
	}
	writeJSON(w, map[string]any{"ok": true}, http.StatusOK)
}

// Reload runs the board's load again. A failed load still answers 200 with
// the fallback data and a warning.
func (h *BoardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	b, ok := h.board(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out := map[string]any{"board": b.Name()}
	if err := b.Load(ctx); err != nil {
		out["warning"] = "load failed, using local data"
		if errors.Is(err, board.ErrNotConfigured) {
			out["warning"] = err.Error()
		}
	}
	out["status"] = b.Status()
	writeJSON(w, out, http.StatusOK)
}

// Week returns the 7-day calendar window starting at ?today= (default: now).
func (h *BoardHandler) Week(w http.ResponseWriter, r *http.Request) {
	today := h.now()
	if v := r.URL.Query().Get("today"); v != "" {
		t, err := time.ParseInLocation(models.DateLayout, v, time.Local)
		if err != nil {
			writeError(w, "invalid today, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		today = t
	}

	writeJSON(w, map[string]any{
		"days": models.Week(h.workspace.Calendar.Items(), today),
	}, http.StatusOK)
}

// ByDate returns the events on one exact date, inside the week window or not.
func (h *BoardHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		writeError(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"date":   date,
		"events": models.EventsOn(h.workspace.Calendar.Items(), date),
	}, http.StatusOK)
}
