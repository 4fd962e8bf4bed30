package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/paint/internal/auth"
	"github.com/inamate/paint/internal/config"
	"github.com/inamate/paint/internal/db"
	"github.com/inamate/paint/internal/drawing"
	"github.com/inamate/paint/internal/engine"
	mw "github.com/inamate/paint/internal/middleware"
	"github.com/inamate/paint/internal/render"
	"github.com/inamate/paint/internal/session"
	"github.com/inamate/paint/internal/store"
	"github.com/inamate/paint/internal/typeid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	drawings, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	authService := auth.NewService(cfg.JWTSecret)
	if !authService.Enabled() {
		slog.Warn("JWT_SECRET not set, authentication disabled")
	}

	hub := session.NewHub()

	drawingService := drawing.NewService(drawings,
		render.Size{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight},
		drawing.WithBusyChecker(hub),
	)
	drawingHandler := drawing.NewHandler(drawingService)

	origins := mw.SplitOrigins(cfg.AllowedOrigins)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, hub.Len())
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	drawingHandler.Register(api)

	// WebSocket endpoint, token via query param
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authService.AuthMiddleware)
	ws.HandleFunc("/drawings/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, drawingService, cfg, originPatterns(origins))
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Close sessions first so modified drawings are autosaved
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore picks Postgres when DATABASE_URL is set and the data directory
// otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using file store", "dir", cfg.DataDir)
		return fs, func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPGStore(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	slog.Info("using postgres store")
	return pg, pool.Close, nil
}

// originPatterns strips the scheme from allowed origins for the websocket
// origin check.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, svc *drawing.Service, cfg *config.Config, origins []string) {
	drawingID := mux.Vars(r)["drawingId"]
	userID := auth.UserIDFromContext(r.Context())

	if hub.Busy(drawingID) {
		http.Error(w, "drawing is open in another session", http.StatusConflict)
		return
	}

	eng, err := svc.Open(r.Context(), drawingID, userID,
		engine.WithHandleSize(cfg.HandleSize),
		engine.WithLogger(slog.Default().With("drawing", drawingID)),
	)
	if err != nil {
		switch {
		case errors.Is(err, drawing.ErrNotFound):
			http.Error(w, "drawing not found", http.StatusNotFound)
		case errors.Is(err, drawing.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			slog.Error("open drawing", "error", err, "drawing", drawingID)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	sess := session.NewSession(hub, conn, typeid.NewSessionID(), drawingID, userID, eng, svc, cfg.Autosave)
	if err := hub.Register(sess); err != nil {
		conn.Close(websocket.StatusTryAgainLater, err.Error())
		return
	}

	ctx := r.Context()
	go sess.WritePump(ctx)
	sess.ReadPump(ctx)
}
