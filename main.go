package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/CrowderSoup/workbench/board"
	"github.com/CrowderSoup/workbench/database"
	"github.com/CrowderSoup/workbench/handlers"
	"github.com/CrowderSoup/workbench/services"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "workbench",
		Short: "Team workspace: tasks, content pipeline, calendar, memory, team and office boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), MustLoad(configPath))
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "configuration file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(boardsCmd(&configPath))
	rootCmd.AddCommand(listCmd(&configPath))
	rootCmd.AddCommand(statsCmd(&configPath))
	rootCmd.AddCommand(addCmd(&configPath))
	rootCmd.AddCommand(deleteCmd(&configPath))
	rootCmd.AddCommand(sendCmd(&configPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg Config) error {
	log := mustMakeLogger(cfg)

	hub := services.NewHub(log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	app, err := openApp(cfg, log, board.WithObserver(hub))
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Workspace.Open(ctx); err != nil {
		log.Warn("some boards started from local data", "error", err)
	}

	router := handlers.NewRouter(handlers.Deps{
		Workspace:   app.Workspace,
		Hub:         hub,
		Sender:      services.NewTelegramSender(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Sync.Timeout),
		Log:         log,
		Timeout:     cfg.Sync.Timeout,
		CheckOrigin: originChecker(cfg.HTTP.AllowedOrigins),
		StaticDir:   cfg.HTTP.StaticDir,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      c.Handler(router),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", server.Addr, "backend", cfg.Storage.Backend)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	if err := app.Workspace.Flush(shutdownCtx); err != nil {
		log.Warn("pending saves did not finish", "error", err)
	}
	return nil
}

// app holds the workspace and the database handles behind it.
type app struct {
	Workspace *board.Workspace
	closers   []io.Closer
}

func openApp(cfg Config, log *slog.Logger, opts ...board.Option) (*app, error) {
	a := &app{}
	dbs := map[string]*sql.DB{}

	openDB := func(path string) (*sql.DB, error) {
		if db, ok := dbs[path]; ok {
			return db, nil
		}
		db, err := database.Open(log, path)
		if err != nil {
			return nil, err
		}
		dbs[path] = db
		a.closers = append(a.closers, db)
		return db, nil
	}

	cacheDB, err := openDB(cfg.Cache.Path)
	if err != nil {
		a.Close()
		return nil, err
	}

	store := func(backend string) (board.DocumentStore, error) {
		switch strings.ToLower(backend) {
		case "sqlite":
			db, err := openDB(cfg.Storage.SQLitePath)
			if err != nil {
				return nil, err
			}
			return database.NewDocumentStore(db), nil
		case "gist":
			return services.NewGistStore(services.GistConfig{
				APIURL:  cfg.Gist.APIURL,
				GistID:  cfg.Gist.ID,
				Token:   cfg.Gist.Token,
				Timeout: cfg.Sync.Timeout,
			}), nil
		case "convex":
			return services.NewConvexStore(cfg.Convex.URL, cfg.Sync.Timeout), nil
		default:
			return nil, fmt.Errorf("unknown storage backend %q", backend)
		}
	}

	var stores board.Stores
	if stores.Default, err = store(cfg.Storage.Backend); err != nil {
		a.Close()
		return nil, err
	}
	if cfg.Storage.TasksBackend != "" {
		if stores.Tasks, err = store(cfg.Storage.TasksBackend); err != nil {
			a.Close()
			return nil, err
		}
	}

	opts = append([]board.Option{
		board.WithLogger(log),
		board.WithSaveTimeout(cfg.Sync.Timeout),
	}, opts...)

	a.Workspace = board.NewWorkspace(stores, database.NewCache(cacheDB), opts...)
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		c.Close()
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func mustMakeLogger(cfg Config) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
