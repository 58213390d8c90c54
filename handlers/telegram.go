package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// MessageSender delivers a text message to a chat.
type MessageSender interface {
	Send(ctx context.Context, chatID, text string) (int64, error)
}

type TelegramHandler struct {
	sender  MessageSender
	log     *slog.Logger
	timeout time.Duration
}

func NewTelegramHandler(sender MessageSender, log *slog.Logger, timeout time.Duration) *TelegramHandler {
	return &TelegramHandler{sender: sender, log: log, timeout: timeout}
}

func (h *TelegramHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID json.RawMessage `json:"chatId"`
		Text   string          `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}

	chatID := chatIDString(req.ChatID)
	if chatID == "" || req.Text == "" {
		writeError(w, "missing chatId or text", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := h.sender.Send(ctx, chatID, req.Text)
	if err != nil {
		h.log.Error("failed to send telegram message", "error", err)
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "messageId": id}, http.StatusOK)
}

// chatIDString accepts a chat id sent as a JSON string or number. Usernames
// such as "@channel" only come as strings.
func chatIDString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
