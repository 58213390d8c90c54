package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/CrowderSoup/workbench/board"
	"github.com/CrowderSoup/workbench/models"
)

// ChatHandler serves the per-member chat history.
type ChatHandler struct {
	chat    *board.ChatLog
	log     *slog.Logger
	timeout time.Duration
}

func NewChatHandler(chat *board.ChatLog, log *slog.Logger, timeout time.Duration) *ChatHandler {
	return &ChatHandler{chat: chat, log: log, timeout: timeout}
}

// List answers an empty list when the store cannot be read.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	msgs, err := h.chat.List(ctx, r.URL.Query().Get("memberId"))
	if err != nil {
		h.log.Warn("failed to fetch chat", "error", err)
		msgs = []models.ChatMessage{}
	}
	writeJSON(w, msgs, http.StatusOK)
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var msg models.ChatMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&msg); err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	saved, err := h.chat.Append(ctx, msg)
	if err != nil {
		h.log.Error("failed to save chat", "error", err)
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "message": saved}, http.StatusOK)
}

func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.chat.Clear(ctx, r.URL.Query().Get("memberId")); err != nil {
		h.log.Error("failed to clear chat", "error", err)
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true}, http.StatusOK)
}
