// Package server serves the live EDA dashboard for one input file: the
// rendered report, ingestion metadata, manual rebuilds, and change
// notifications over SSE. Rendered documents are cached by content
// checksum and theme.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tablens/tablens/internal/logging"
	"github.com/tablens/tablens/pkg/cache"
	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/ingest"
	"github.com/tablens/tablens/pkg/report"
)

// Server renders and serves the dashboard for a single source file.
type Server struct {
	path   string
	opts   report.Options
	cache  cache.Backend
	broker *Broker
	router chi.Router

	mu      sync.RWMutex
	current *report.Report
}

// New creates a server bound to one input file. backend may be nil, in
// which case an in-process cache is used.
func New(path string, opts report.Options, backend cache.Backend) *Server {
	if backend == nil {
		backend = cache.NewMemory(16, 15*time.Minute)
	}

	s := &Server{
		path:   path,
		opts:   opts,
		cache:  backend,
		broker: NewBroker(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/api/metadata", s.handleMetadata)
	r.Post("/api/reload", s.handleReload)
	r.Get("/events", s.broker.Handler())
	r.Get("/healthz", s.handleHealth)
	s.router = r

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close releases the cache backend.
func (s *Server) Close() error { return s.cache.Close() }

// Current returns the last built report, or nil before the first build.
func (s *Server) Current() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Rebuild ingests the file, renders a fresh report, caches it, and
// notifies SSE subscribers.
func (s *Server) Rebuild(ctx context.Context) (*report.Report, error) {
	ctx, span := otel.Tracer("tablens/server").Start(ctx, "server.rebuild")
	defer span.End()
	span.SetAttributes(attribute.String("source.path", s.path))

	engine := ingest.New(s.path)
	fr, err := engine.Load(ctx)
	if err != nil {
		return nil, err
	}

	rep, err := report.Build(ctx, fr, engine.Metadata(), s.path, s.opts)
	if err != nil {
		return nil, err
	}

	if key, err := cache.Key(s.path, s.opts.Theme); err == nil {
		if err := s.cache.Put(ctx, key, rep.HTML); err != nil {
			logging.FromContext(ctx).Warn("failed to cache report", "error", err)
		}
	}

	s.mu.Lock()
	s.current = rep
	s.mu.Unlock()

	s.broker.Publish(Event{
		Event: "reload",
		Data:  map[string]string{"build_id": rep.BuildID},
	})

	logging.FromContext(ctx).Info("report rebuilt",
		"path", s.path,
		"build_id", rep.BuildID,
		"rows", fr.NumRows(),
		"skipped", engine.Metadata().SkippedRows)
	return rep, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if key, err := cache.Key(s.path, s.opts.Theme); err == nil {
		if doc, ok, _ := s.cache.Get(ctx, key); ok {
			logging.FromContext(ctx).Debug("serving cached report", "path", s.path)
			writeHTML(w, doc)
			return
		}
	}

	rep, err := s.Rebuild(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeHTML(w, rep.HTML)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	rep := s.Current()
	if rep == nil {
		if _, err := s.Rebuild(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
		rep = s.Current()
	}
	writeJSON(w, http.StatusOK, rep.Meta)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if key, err := cache.Key(s.path, s.opts.Theme); err == nil {
		s.cache.Invalidate(r.Context(), key)
	}

	rep, err := s.Rebuild(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "rebuilt",
		"build_id": rep.BuildID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch tlerrors.GetCode(err) {
	case tlerrors.CodeNotFound:
		status = http.StatusNotFound
	case tlerrors.CodeInvalidTarget, tlerrors.CodeUnsupportedFormat:
		status = http.StatusBadRequest
	}

	logging.FromContext(r.Context()).Error("request failed",
		"path", r.URL.Path, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeHTML(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(doc)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
