// Package api exposes the tracker to a rendering layer over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"token-tracker/internal/domain"
	"token-tracker/internal/logging"
	"token-tracker/internal/observability"
	"token-tracker/internal/reporting"
	"token-tracker/internal/storage"
)

// Tracker is the read/command surface the API needs.
type Tracker interface {
	CurrentView() []domain.Token
	View(f domain.Filter) []domain.Token
	Aggregates() domain.Aggregates
	Token(id string) (domain.Token, error)
	Snapshot() domain.Snapshot
	IsRunning() bool
	ActiveFilter() domain.Filter
	Len() int
	SetRunning(running bool)
	SetFilter(f domain.Filter)
}

// Server holds the HTTP handlers.
type Server struct {
	tracker   Tracker
	feed      http.Handler
	logger    *logrus.Entry
	startedAt time.Time
}

// Options contains configuration for creating a Server.
type Options struct {
	Tracker   Tracker
	Feed      http.Handler // mounted at /ws when set
	Logger    *logrus.Entry
	StartedAt time.Time // Default: time.Now()
}

// NewServer creates the API server.
func NewServer(opts Options) *Server {
	s := &Server{
		tracker:   opts.Tracker,
		feed:      opts.Feed,
		logger:    opts.Logger,
		startedAt: opts.StartedAt,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.startedAt.IsZero() {
		s.startedAt = time.Now()
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.Handler())
	r.Get("/status", s.handleStatus)

	if s.feed != nil {
		r.Handle("/ws", s.feed)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/tokens", s.handleTokens)
		r.Get("/tokens.csv", s.handleTokensCSV)
		r.Get("/tokens/{id}", s.handleToken)
		r.Get("/stats", s.handleStats)
		r.Get("/report.md", s.handleReport)
		r.Get("/state", s.handleState)
		r.Put("/live", s.handleSetLive)
		r.Put("/filter", s.handleSetFilter)
	})

	return r
}

// StateResponse is the JSON response for /api/state.
type StateResponse struct {
	Running bool          `json:"running"`
	Filter  domain.Filter `json:"filter"`
	Count   int           `json:"count"`
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status    string        `json:"status"`
	Uptime    string        `json:"uptime"`
	StartedAt time.Time     `json:"started_at"`
	Running   bool          `json:"running"`
	Filter    domain.Filter `json:"filter"`
	Tokens    int           `json:"tokens"`
}

// LiveRequest is the body of PUT /api/live.
type LiveRequest struct {
	Running *bool `json:"running"`
}

// FilterRequest is the body of PUT /api/filter.
type FilterRequest struct {
	Filter string `json:"filter"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status := "paused"
	if s.tracker.IsRunning() {
		status = "running"
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    status,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		StartedAt: s.startedAt,
		Running:   s.tracker.IsRunning(),
		Filter:    s.tracker.ActiveFilter(),
		Tokens:    s.tracker.Len(),
	})
}

// GET /api/tokens[?filter=]
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	tokens, apiErr := s.viewFor(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// GET /api/tokens.csv[?filter=]
func (s *Server) handleTokensCSV(w http.ResponseWriter, r *http.Request) {
	tokens, apiErr := s.viewFor(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(reporting.RenderTokensCSV(tokens)))
}

// GET /api/tokens/{id}
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tok, err := s.tracker.Token(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, newError(CodeNotFound, "token "+id+" not found"))
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("token_id", id).Error("token lookup failed")
		writeError(w, newError(CodeInternalServer, "internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Aggregates())
}

// GET /api/report.md
func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(reporting.RenderMarkdown(s.tracker.Snapshot())))
}

// GET /api/state
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

// PUT /api/live {"running": bool}
func (s *Server) handleSetLive(w http.ResponseWriter, r *http.Request) {
	var req LiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, newError(CodeInvalidJSON, "invalid json body"))
		return
	}
	if req.Running == nil {
		writeError(w, newError(CodeInvalidData, "running is required"))
		return
	}

	s.tracker.SetRunning(*req.Running)
	writeJSON(w, http.StatusOK, s.state())
}

// PUT /api/filter {"filter": "gainers"}
func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, newError(CodeInvalidJSON, "invalid json body"))
		return
	}

	f, err := domain.ParseFilter(req.Filter)
	if err != nil {
		writeError(w, newError(CodeInvalidData, err.Error()))
		return
	}

	s.tracker.SetFilter(f)
	writeJSON(w, http.StatusOK, s.state())
}

// viewFor returns the view for the ?filter= query, or the active view.
func (s *Server) viewFor(r *http.Request) ([]domain.Token, *APIError) {
	raw := r.URL.Query().Get("filter")
	if raw == "" {
		return s.tracker.CurrentView(), nil
	}

	f, err := domain.ParseFilter(raw)
	if err != nil {
		return nil, newError(CodeInvalidData, err.Error())
	}
	return s.tracker.View(f), nil
}

func (s *Server) state() StateResponse {
	return StateResponse{
		Running: s.tracker.IsRunning(),
		Filter:  s.tracker.ActiveFilter(),
		Count:   s.tracker.Len(),
	}
}

// requestLogger logs each request and records it in metrics by route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.RecordHTTPRequest(route, strconv.Itoa(status))

		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("http request")
	})
}
