package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CrowderSoup/workbench/board"
	"github.com/CrowderSoup/workbench/services"
)

const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, map[string]string{"error": message}, status)
}

// writeErr maps package errors to HTTP status codes.
func writeErr(w http.ResponseWriter, err error) {
	var statusErr *services.StatusError
	var tgErr *services.TelegramError

	switch {
	case errors.Is(err, board.ErrUnknownBoard), errors.Is(err, board.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, board.ErrInvalidRecord), errors.Is(err, services.ErrTelegramMissingFields):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, board.ErrConfirmationRequired):
		writeError(w, err.Error(), http.StatusPreconditionRequired)
	case errors.Is(err, board.ErrNotConfigured), errors.Is(err, services.ErrTelegramNotConfigured):
		writeError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &statusErr), errors.As(err, &tgErr), errors.Is(err, services.ErrConvexFunction):
		writeError(w, err.Error(), http.StatusBadGateway)
	default:
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}
