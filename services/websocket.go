package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024 * 1024 // 1MB

	broadcastBuffer = 256
)

// Message types pushed to browsers.
const (
	MessageSync  = "sync"
	MessageError = "error"
	MessagePing  = "ping"
	MessagePong  = "pong"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	ID   string // browser tab identifier, or the remote address
}

// WebSocketMessage is the standard message format for WebSocket communication
type WebSocketMessage struct {
	Type   string `json:"type"`
	Board  string `json:"board,omitempty"`
	Data   any    `json:"data"`
	Sender string `json:"sender,omitempty"`
}

// SyncData is the payload of a sync message.
type SyncData struct {
	Items any   `json:"items"`
	At    int64 `json:"at"`
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("websocket read failed", "client", c.ID, "error", err)
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			c.Hub.log.Debug("dropping malformed websocket message", "client", c.ID, "error", err)
			continue
		}
		wsMessage.Sender = c.ID

		// Reply with a pong directly to this client only
		if wsMessage.Type == MessagePing {
			pong, err := json.Marshal(WebSocketMessage{
				Type: MessagePong,
				Data: map[string]string{"timestamp": time.Now().Format(time.RFC3339)},
			})
			if err == nil {
				c.Hub.SendTo(c, pong)
			}
			continue
		}

		c.Hub.log.Debug("received websocket message", "client", c.ID, "type", wsMessage.Type)
		c.Hub.Broadcast(wsMessage)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub fans board changes and notices out to every connected browser. It
// implements board.Observer. Only the Run goroutine sends on or closes a
// client's Send channel.
type Hub struct {
	log        *slog.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}
}

type directMessage struct {
	client *Client
	data   []byte
}

// NewHub creates a new hub instance
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log.With("component", "hub"),
		broadcast:  make(chan []byte, broadcastBuffer),
		direct:     make(chan directMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	reply := make(chan int)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// SendTo delivers data to one client. It is dropped when the client is no
// longer registered or the hub has stopped.
func (h *Hub) SendTo(client *Client, data []byte) {
	select {
	case h.direct <- directMessage{client: client, data: data}:
	case <-h.done:
	}
}

// Broadcast queues message for every client except its sender. A full queue
// drops the message; browsers catch up on the next sync.
func (h *Hub) Broadcast(message WebSocketMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("failed to encode websocket message", "type", message.Type, "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("broadcast queue full, dropping message", "type", message.Type, "board", message.Board)
	}
}

// Changed pushes the new collection of a board.
func (h *Hub) Changed(board string, items any) {
	h.Broadcast(WebSocketMessage{
		Type:  MessageSync,
		Board: board,
		Data:  SyncData{Items: items, At: time.Now().UnixMilli()},
	})
}

// Failed pushes a non-fatal notice for the error banner.
func (h *Hub) Failed(board, message string) {
	h.Broadcast(WebSocketMessage{Type: MessageError, Board: board, Data: message})
}

// Run starts the hub's main loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case reply := <-h.count:
			reply <- len(h.clients)
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("client connected", "client", client.ID)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.log.Info("client disconnected", "client", client.ID)
			}
		case msg := <-h.direct:
			if _, ok := h.clients[msg.client]; !ok {
				continue
			}
			select {
			case msg.client.Send <- msg.data:
			default:
				h.log.Warn("client send buffer full, removing client", "client", msg.client.ID)
				close(msg.client.Send)
				delete(h.clients, msg.client)
			}
		case message := <-h.broadcast:
			var wsMessage WebSocketMessage
			decoder := json.NewDecoder(bytes.NewReader(message))
			if err := decoder.Decode(&wsMessage); err != nil {
				h.log.Error("failed to decode queued message", "error", err)
				continue
			}

			for client := range h.clients {
				// skip the sender to avoid echo
				if wsMessage.Sender != "" && client.ID == wsMessage.Sender {
					continue
				}

				select {
				case client.Send <- message:
				default:
					// Client's send buffer is full, assume disconnected
					h.log.Warn("client send buffer full, removing client", "client", client.ID)
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}
