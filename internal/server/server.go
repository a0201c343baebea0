// Package server exposes the drive facade over HTTP.
//
// Authentication is out of scope for this layer: the tenant prefix is
// taken from the URL, and an upstream gateway is expected to have
// already established that the caller may act for that tenant.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/objvault/drivefs/internal/drive"
	"github.com/objvault/drivefs/internal/logger"
)

// Server is the HTTP front for a drive.Facade.
type Server struct {
	http *http.Server
	log  *logger.Logger
}

// New builds a Server listening on addr.
func New(addr string, facade *drive.Facade, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New(nil)
	}

	h := &handlers{facade: facade, log: log}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/v1/{tenant}", func(r chi.Router) {
		r.Post("/folders", h.createFolder)
		r.Get("/folders", h.listFolder)
		r.Post("/uploads", h.uploadURL)
		r.Get("/download", h.downloadURL)
		r.Get("/search", h.search)
		r.Delete("/objects", h.remove)
		r.Post("/move", h.move)
	})

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Handler returns the underlying router, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Infof("http server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
