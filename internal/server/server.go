package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/bookview/internal/session"
	"github.com/ziadkadry99/bookview/internal/toc"
	"github.com/ziadkadry99/bookview/internal/viewer"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
	// ZoomStep is the increment the zoom buttons send.
	ZoomStep float64
	// Breakpoint is the single-column width threshold passed to the page.
	Breakpoint int
	Title      string
}

// Server is the viewer HTTP server: the HTML shell, the intent API and the
// page surfaces.
type Server struct {
	cfg        Config
	sessions   *session.Manager
	entries    []toc.Entry
	router     chi.Router
	httpServer *http.Server
}

// New creates a new server over the given session manager.
func New(cfg Config, sessions *session.Manager, entries []toc.Entry) *Server {
	if cfg.ZoomStep <= 0 {
		cfg.ZoomStep = viewer.ZoomStep
	}
	if cfg.Breakpoint <= 0 {
		cfg.Breakpoint = viewer.DefaultSingleColumnWidth
	}
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		entries:  entries,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.serveIndex)

	// The websocket handler must not sit behind the timeout middleware.
	r.Get("/ws/sessions/{id}", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		s.registerAPI(r)
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager { return s.sessions }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("bookview server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
