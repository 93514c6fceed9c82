// Package api exposes the grading engine over JSON HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	service "github.com/nveerman1/team-evaluatie-app-sub000/internal/app"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/resolver"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/stats"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
	"github.com/nveerman1/team-evaluatie-app-sub000/pkg/logger"
)

const (
	maxBodyBytes          = 1 << 20
	defaultRequestTimeout = 5 * time.Second
	defaultWeight         = 1.0
)

// Engine is the grading functionality the handlers depend on.
type Engine interface {
	ComputeGrade(ctx context.Context, scale grading.Scale, items []grading.Item) service.GradeResult
	AggregateCategories(ctx context.Context, req service.CategoryRequest) service.CategoryResult
	Resolve(ctx context.Context, studentID string, c resolver.Candidates) resolver.Resolution
	Summarize(ctx context.Context, values []float64) stats.Summary
	SummarizeGroups(ctx context.Context, groups map[string][]float64) map[string]stats.Summary
	Report(ctx context.Context, students []service.StudentCandidates, threshold types.Float) service.CohortReport
	LessonBlocks(seconds int64) float64
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCORSOrigins sets the origins allowed to call the API from a browser.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithRequestTimeout bounds each request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithDefaultWeight sets the weight used when a criterion omits one.
func WithDefaultWeight(w float64) Option {
	return func(s *Server) {
		if w > 0 {
			s.defaultWeight = w
		}
	}
}

// Server wires HTTP routes for the grading API.
type Server struct {
	engine Engine
	stats  StatsProvider

	logger         logger.Logger
	corsOrigins    []string
	requestTimeout time.Duration
	defaultWeight  float64
}

// NewServer creates a new API server.
func NewServer(engine Engine, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		engine:         engine,
		stats:          statsProvider,
		logger:         logger.Nop(),
		requestTimeout: defaultRequestTimeout,
		defaultWeight:  defaultWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router with all routes and middleware attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, middleware.RealIP, s.recoverer, MetricsMiddleware)
	r.Use(middleware.Timeout(s.requestTimeout))
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", headerRequestID},
			ExposedHeaders: []string{headerRequestID},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", metricsHandler())
	r.Get("/stats", s.handleStats)

	r.Route("/v1", func(v chi.Router) {
		v.Post("/grades/compute", s.handleComputeGrade)
		v.Post("/grades/resolve", s.handleResolveGrade)
		v.Post("/categories/aggregate", s.handleAggregateCategories)
		v.Post("/statistics/summary", s.handleSummary)
		v.Post("/statistics/groups", s.handleGroupSummary)
		v.Post("/cohorts/report", s.handleCohortReport)
		v.Get("/attendance/blocks", s.handleLessonBlocks)
	})
	return r
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFrom(r.Context())})
}

// decodeJSON reads exactly one JSON document into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return ErrBodyTooBig
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON body", ErrBadRequest)
	}
	return nil
}

func (s *Server) decodeOrReject(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := decodeJSON(w, r, dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrBodyTooBig):
		writeError(w, r, http.StatusRequestEntityTooLarge, "body_too_large", err)
	default:
		writeError(w, r, http.StatusBadRequest, "bad_request", err)
	}
	return false
}
