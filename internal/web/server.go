// Package web provides the HTTP server and browser UI of the playlist editor.
package web

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// purgeInterval is how often expired in-memory workspaces are dropped.
const purgeInterval = time.Hour

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	Sessions    SessionManager
	TemplatesFS fs.FS
	StaticFS    fs.FS
}

// Server is the HTTP server for the web application.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	sessions  SessionManager
	handlers  *Handlers
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	handlers := NewHandlers(cfg.Sessions, templates)

	router := chi.NewRouter()

	s := &Server{
		router:    router,
		templates: templates,
		sessions:  cfg.Sessions,
		handlers:  handlers,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	// Static files
	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/healthz", s.handlers.Health)

	// Editor routes, all scoped to the caller's session
	s.router.Group(func(r chi.Router) {
		r.Use(s.handlers.WithWorkspace)

		r.Get("/", s.handlers.Home)
		r.Get("/tracks", s.handlers.Tracks)
		r.Post("/tracks", s.handlers.AddTrack)
		r.Post("/tracks/{index}/remove", s.handlers.RemoveTrack)
		r.Post("/playlists", s.handlers.CreatePlaylist)
		r.Post("/playlists/load", s.handlers.LoadPlaylists)
		r.Post("/reset", s.handlers.Reset)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	purgeDone := make(chan struct{})
	go s.purgeExpired(purgeDone)
	defer close(purgeDone)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// purgeExpired periodically drops expired sessions until done is closed.
func (s *Server) purgeExpired(done <-chan struct{}) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if n := s.sessions.PurgeExpired(context.Background()); n > 0 {
				log.Printf("Purged %d expired sessions", n)
			}
		}
	}
}
