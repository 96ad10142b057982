// Package api exposes the operator HTTP interface: health and status probes,
// Prometheus metrics and read-only document queries.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/metrics"
	"github.com/radarlegislativo/ingest/internal/schedule"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	queryTimeout     = 5 * time.Second
)

// StatusSource provides the scheduler state shown on /status.
type StatusSource interface {
	Snapshot() schedule.Status
}

// Server wires HTTP handlers to the document store and scheduler.
type Server struct {
	router chi.Router
	store  document.Store
	status StatusSource
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes. status may be nil
// when no scheduler is running (one-shot mode).
func NewServer(store document.Store, status StatusSource, logger *zap.Logger) *Server {
	s := &Server{
		store:  store,
		status: status,
		logger: logger.Named("api"),
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/status", s.schedulerStatus)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/documentos", func(r chi.Router) {
			r.Get("/", s.listDocuments)
			r.Get("/count", s.countDocuments)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "document store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) schedulerStatus(w http.ResponseWriter, _ *http.Request) {
	if s.status == nil {
		writeError(w, http.StatusNotFound, "scheduler not running")
		return
	}
	writeJSON(w, http.StatusOK, s.status.Snapshot())
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	docs, err := s.store.List(ctx, filters)
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []document.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documentos": docs,
		"total":      len(docs),
	})
}

func (s *Server) countDocuments(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	count, err := s.store.Count(ctx, filters)
	if err != nil {
		s.logger.Error("count documents failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to count documents")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"total": count})
}

func parseFilters(r *http.Request) (document.ListFilters, error) {
	q := r.URL.Query()
	filters := document.ListFilters{
		Channel:     strings.TrimSpace(q.Get("canal")),
		Topic:       strings.TrimSpace(q.Get("categoria")),
		ContentKind: strings.TrimSpace(q.Get("tipo")),
		Source:      strings.TrimSpace(q.Get("fonte")),
		Limit:       defaultListLimit,
	}
	if raw := strings.TrimSpace(q.Get("desde")); raw != "" {
		since, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return document.ListFilters{}, errInvalidParam("desde")
		}
		filters.Since = since
	}
	if raw := strings.TrimSpace(q.Get("limite")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return document.ListFilters{}, errInvalidParam("limite")
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
		filters.Limit = limit
	}
	return filters, nil
}

type paramError string

func (e paramError) Error() string { return "invalid parameter: " + string(e) }

func errInvalidParam(name string) error { return paramError(name) }

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
