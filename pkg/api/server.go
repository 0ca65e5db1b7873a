package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carouselhq/carousel/pkg/device"
	"github.com/carouselhq/carousel/pkg/hashtag"
	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/manager"
	"github.com/carouselhq/carousel/pkg/metrics"
)

// Server exposes the control-plane REST API
type Server struct {
	router    *chi.Mux
	manager   *manager.Manager
	driver    device.Driver
	generator hashtag.Generator
	hashtags  *hashtag.Source
	videosDir string

	httpServer *http.Server
}

// NewServer wires the API over the manager, driver and hashtag components
func NewServer(mgr *manager.Manager, drv device.Driver, tags *hashtag.Source, gen hashtag.Generator, videosDir string) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		manager:   mgr,
		driver:    drv,
		generator: gen,
		hashtags:  tags,
		videosDir: videosDir,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/api/status", s.handleStatus)
	s.router.Handle("/metrics", metrics.Handler())

	s.router.Route("/api/accounts", func(r chi.Router) {
		r.Get("/", s.handleListAccounts)
		r.Post("/", s.handleCreateAccount)
		r.Get("/{id}", s.handleGetAccount)
		r.Put("/{id}", s.handleUpdateAccount)
		r.Delete("/{id}", s.handleDeleteAccount)
	})

	s.router.Route("/api/videos", func(r chi.Router) {
		r.Get("/", s.handleListVideos)
		r.Post("/upload", s.handleUploadVideo)
		r.Get("/{id}", s.handleGetVideo)
		r.Delete("/{id}", s.handleDeleteVideo)
	})

	s.router.Post("/api/hashtags/generate", s.handleGenerateHashtags)
	s.router.Route("/api/hashtag-templates", func(r chi.Router) {
		r.Get("/", s.handleListTemplates)
		r.Post("/", s.handleCreateTemplate)
		r.Get("/{id}", s.handleGetTemplate)
		r.Post("/{id}/variation", s.handleTemplateVariation)
	})

	s.router.Route("/api/carousel-sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
		r.Post("/{id}/status", s.handleSessionAction)
		r.Get("/{id}/next-action", s.handleNextAction)
	})

	s.router.Route("/api/device", func(r chi.Router) {
		r.Get("/status", s.handleDeviceStatus)
		r.Post("/connect", s.handleDeviceConnect)
		r.Post("/disconnect", s.handleDeviceDisconnect)
		r.Post("/vpn/{action}", s.handleDeviceVPN)
		r.Post("/screenshot", s.handleScreenshot)
	})
}

// Router returns the HTTP handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving on addr and blocks until shutdown
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger := log.WithComponent("api")
	logger.Info().Str("addr", addr).Msg("API server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	logger := log.WithComponent("api")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
