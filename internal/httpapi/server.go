/*
Package httpapi serves the catalog search service over HTTP.

Routes:

	GET /api/search?q=&category=&limit=
	GET /api/suggest?q=
	GET /api/segment?text=
	GET /api/records?category=
	GET /api/records/{id}
	GET /healthz
	GET /metrics
*/
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/metrics"
	"github.com/khanglvm/catalog-search/internal/search"
	"github.com/khanglvm/catalog-search/internal/version"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeBadRequest    = "bad_request"
	CodeInvalidQuery  = "invalid_query"
	CodeNotFound      = "record_not_found"
	CodeInternalError = "internal_error"
)

const shutdownTimeout = 10 * time.Second

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuggestResponse is returned by /api/suggest.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// SegmentResponse is returned by /api/segment.
type SegmentResponse struct {
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

// RecordsResponse is returned by /api/records.
type RecordsResponse struct {
	Total   int             `json:"total"`
	Records []search.Record `json:"records"`
}

// Server exposes a catalog.Service over HTTP.
type Server struct {
	svc    *catalog.Service
	logger *zap.Logger
	router chi.Router
}

// NewServer builds the router and its middleware chain.
func NewServer(svc *catalog.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.SetHeader("Server", version.Get().UserAgent()))
	r.Use(requestLogger(logger))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.search)
		r.Get("/suggest", s.suggest)
		r.Get("/segment", s.segment)
		r.Get("/records", s.listRecords)
		r.Get("/records/{id}", s.getRecord)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	info := version.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": s.svc.Store().Count(),
		"version": info.Version,
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	resp, err := s.svc.Search(r.Context(), catalog.Query{
		Text:     q.Get("q"),
		Category: q.Get("category"),
		Limit:    limit,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("q")
	suggestions, err := s.svc.Suggest(r.Context(), partial)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Query: partial, Suggestions: suggestions})
}

func (s *Server) segment(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	writeJSON(w, http.StatusOK, SegmentResponse{Text: text, Tokens: s.svc.Segment(text)})
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.List(r.URL.Query().Get("category"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordsResponse{Total: len(records), Records: records})
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "id must be an integer")
		return
	}

	rec, err := s.svc.Get(id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, CodeInvalidQuery, err.Error())
	case errors.Is(err, catalog.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, CodeInternalError, "request canceled")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
