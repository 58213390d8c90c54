package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/CrowderSoup/workbench/board"
	"github.com/CrowderSoup/workbench/services"
	"github.com/gorilla/mux"
)

type Deps struct {
	Workspace   *board.Workspace
	Hub         *services.Hub
	Sender      MessageSender
	Log         *slog.Logger
	Timeout     time.Duration
	CheckOrigin func(*http.Request) bool
	StaticDir   string
}

func NewRouter(d Deps) *mux.Router {
	boards := NewBoardHandler(d.Workspace, d.Log, d.Timeout)
	chat := NewChatHandler(d.Workspace.Chat, d.Log, d.Timeout)
	telegram := NewTelegramHandler(d.Sender, d.Log, d.Timeout)
	data := NewDataHandler(d.Workspace, d.Hub, d.Log, d.CheckOrigin)

	r := mux.NewRouter()
	r.Use(NewRequestLogger(d.Log).Log)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", data.Health).Methods("GET")
	api.HandleFunc("/data", data.GetData).Methods("GET")
	api.HandleFunc("/ws", data.HandleWebSocket)

	// Calendar views
	api.HandleFunc("/calendar/week", boards.Week).Methods("GET")
	api.HandleFunc("/calendar/date/{date}", boards.ByDate).Methods("GET")

	// Boards
	api.HandleFunc("/boards", boards.ListBoards).Methods("GET")
	api.HandleFunc("/boards/{board}", boards.List).Methods("GET")
	api.HandleFunc("/boards/{board}", boards.Add).Methods("POST")
	api.HandleFunc("/boards/{board}/stats", boards.Stats).Methods("GET")
	api.HandleFunc("/boards/{board}/columns", boards.Columns).Methods("GET")
	api.HandleFunc("/boards/{board}/reload", boards.Reload).Methods("POST")
	api.HandleFunc("/boards/{board}/{id}", boards.Update).Methods("PATCH")
	api.HandleFunc("/boards/{board}/{id}", boards.Delete).Methods("DELETE")

	// Chat and messaging
	api.HandleFunc("/chat", chat.List).Methods("GET")
	api.HandleFunc("/chat", chat.Send).Methods("POST")
	api.HandleFunc("/chat", chat.Clear).Methods("DELETE")
	api.HandleFunc("/telegram/send", telegram.Send).Methods("POST")

	if d.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.StaticDir)))
	}
	return r
}
