// Package server exposes the REST API over the expense store and the chat
// assistant.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pennypal/pennypal/internal/logger"
	"github.com/pennypal/pennypal/internal/models"
	"github.com/pennypal/pennypal/internal/repository"
)

// ExpenseStore is the persistence surface the handlers depend on.
// *repository.ExpenseRepository satisfies it.
type ExpenseStore interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id int) (*models.Expense, error)
	List(ctx context.Context, filter repository.Filter) ([]models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id int) error
	CategoryBreakdown(ctx context.Context, month time.Time) ([]models.CategoryTotal, error)
}

// ChatResponder produces a reply for one chat turn. It never fails.
type ChatResponder interface {
	Respond(ctx context.Context, userID, message string) *models.ChatResponse
}

// Server wires the REST routes to the store and the chat router.
type Server struct {
	store ExpenseStore
	chat  ChatResponder
	now   func() time.Time
}

// New creates a Server. now may be nil for time.Now; it is injectable so
// handler tests can pin "today".
func New(store ExpenseStore, chat ChatResponder, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{store: store, chat: chat, now: now}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/expenses", s.handleListExpenses)
		r.Post("/expenses", s.handleCreateExpense)
		r.Post("/expenses/quick", s.handleQuickAdd)
		r.Get("/expenses/{id}", s.handleGetExpense)
		r.Put("/expenses/{id}", s.handleUpdateExpense)
		r.Delete("/expenses/{id}", s.handleDeleteExpense)

		r.Get("/download", s.handleDownload)
		r.Get("/chart", s.handleChart)

		r.Post("/chatbot", s.handleChat)
	})

	return r
}

// requestLogger logs each request with zerolog once the response is written.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
