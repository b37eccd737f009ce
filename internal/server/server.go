// Package server exposes the conversion engine over HTTP: upload, convert,
// batch convert, style enumeration, health, stats and cleanup endpoints.
package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkbrush/cartoonize/internal/engine"
	"github.com/inkbrush/cartoonize/internal/storage"
)

// Server routes HTTP requests to the dispatcher and the output store.
//
// Conversion handlers acquire a slot from a bounded worker pool before
// doing any filtering, so long-running conversions queue among themselves
// without blocking lightweight requests like style enumeration or health
// probes.
type Server struct {
	dispatcher *engine.Dispatcher
	store      *storage.Store
	logger     *log.Logger

	maxUploadBytes int64
	workers        chan struct{}
}

// Options configures the server.
type Options struct {
	MaxUploadMB int
	// Workers bounds concurrent conversions; 0 means one per CPU.
	Workers int
}

// New builds the server over its collaborators.
func New(dispatcher *engine.Dispatcher, store *storage.Store, logger *log.Logger, opts Options) *Server {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxUploadMB := opts.MaxUploadMB
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Server{
		dispatcher:     dispatcher,
		store:          store,
		logger:         logger,
		maxUploadBytes: int64(maxUploadMB) << 20,
		workers:        make(chan struct{}, workers),
	}
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/styles", s.handleStyles)
		r.Post("/convert", s.handleConvert)
		r.Post("/batch-convert", s.handleBatchConvert)
		r.Delete("/cleanup", s.handleCleanup)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// acquireWorker blocks until a conversion slot is free.
func (s *Server) acquireWorker() func() {
	s.workers <- struct{}{}
	return func() { <-s.workers }
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
		)
	})
}
