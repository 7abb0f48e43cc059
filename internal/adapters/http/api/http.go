// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/apexstats/internal/domain/dedupe"
	"github.com/okian/apexstats/internal/domain/model"
	"github.com/okian/apexstats/internal/domain/stats"
	"github.com/okian/apexstats/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Record(ctx context.Context, o model.Observation) error
	QueryFilter(ctx context.Context, f stats.Filter) (stats.QueryResult, bool, error)
	Observations(ctx context.Context, q stats.Query, limit int) ([]model.Observation, error)
	Now() time.Time
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	observationsHandler *ObservationsHandler
	logger              logger.Logger
	deduper             dedupe.Deduper
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used by the request middleware.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDeduper replaces the idempotency key tracker used by POST /observations.
func WithDeduper(d dedupe.Deduper) ServerOption {
	return func(s *Server) {
		if d != nil {
			s.deduper = d
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		logger:        logger.Nop(),
		deduper:       dedupe.NewInMemoryDeduper(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.observationsHandler = NewObservationsHandler(deps, s.deduper)
	return s
}

// Router returns a router with every route registered.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r *mux.Router) {
	r.Use(RequestIDMiddleware(s.logger))

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc("/observations", MetricsMiddleware(s.observationsHandler.HandleList, "observations")).Methods(http.MethodGet)
	r.HandleFunc("/observations", MetricsMiddleware(s.observationsHandler.HandleCreate, "observations")).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, nil)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
