// Package api serves the book over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/service"
)

// Server is the kakeibo HTTP API server.
type Server struct {
	svc    *service.Service
	logger *logging.Logger
}

// NewServer creates a new API server.
func NewServer(svc *service.Service, logger *logging.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleCreateAccount)
			r.Put("/{id}", s.handleUpdateAccount)
			r.Delete("/{id}", s.handleDeleteAccount)
		})
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})
		r.Route("/fixed-costs", func(r chi.Router) {
			r.Get("/", s.handleListFixedCosts)
			r.Post("/", s.handleCreateFixedCost)
			r.Put("/{id}", s.handleUpdateFixedCost)
			r.Delete("/{id}", s.handleDeleteFixedCost)
		})
		r.Route("/income-schedule", func(r chi.Router) {
			r.Get("/", s.handleListIncome)
			r.Post("/", s.handleCreateIncome)
			r.Put("/{id}", s.handleUpdateIncome)
			r.Delete("/{id}", s.handleDeleteIncome)
		})
		r.Get("/categories", s.handleCategories)
		r.Get("/summary", s.handleSummary)
		r.Get("/bs", s.handleBalanceSheet)
		r.Get("/cashflow", s.handleCashflow)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/pl", s.handlePL)
		r.Get("/check", s.handleCheck)
	})

	return r
}

// requestLogger logs each request once it has been served.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var status int
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Field = verr.Field
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrTransactionNotFound),
		errors.Is(err, model.ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, resp)
}
