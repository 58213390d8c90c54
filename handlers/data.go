package handlers

import (
	"log/slog"
	"net/http"

	"github.com/CrowderSoup/workbench/board"
	"github.com/CrowderSoup/workbench/services"
	"github.com/gorilla/websocket"
)

// DataHandler serves whole-workspace snapshots and the push channel.
type DataHandler struct {
	workspace *board.Workspace
	hub       *services.Hub
	log       *slog.Logger
	upgrader  websocket.Upgrader
}

func NewDataHandler(workspace *board.Workspace, hub *services.Hub, log *slog.Logger, checkOrigin func(*http.Request) bool) *DataHandler {
	return &DataHandler{
		workspace: workspace,
		hub:       hub,
		log:       log,
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// GetData returns every board in one response.
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	data := make(map[string]any)
	for _, b := range h.workspace.All() {
		data[b.Name()] = b.List("")
	}

	writeJSON(w, map[string]any{
		"status": "success",
		"data":   data,
	}, http.StatusOK)
}

func (h *DataHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"clients": h.hub.Clients(),
	}, http.StatusOK)
}

// HandleWebSocket upgrades the HTTP connection to a WebSocket connection.
// ?client= names the browser tab so its own messages are not echoed back.
func (h *DataHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("client")
	if id == "" {
		id = r.RemoteAddr
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("failed to upgrade websocket", "error", err)
		return
	}

	client := &services.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		ID:   id,
	}
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
