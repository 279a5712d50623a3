package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/prospectly/coinledger/internal/adapter/http/handler"
	"github.com/prospectly/coinledger/internal/adapter/http/middleware"
	"github.com/prospectly/coinledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	ReservationHandler *handler.ReservationHandler
	EntryHandler       *handler.EntryHandler
	PricingHandler     *handler.PricingHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Log                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Log).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.GetBalance)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
			r.Get("/{id}/ledger/verify", cfg.EntryHandler.Verify)
			r.Get("/{id}/reservations", cfg.ReservationHandler.ListByAccount)
			r.Post("/{id}/deduct", cfg.AccountHandler.Deduct)
			r.Post("/{id}/credit", cfg.AccountHandler.Credit)
			r.Post("/{id}/refund", cfg.AccountHandler.Refund)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", cfg.ReservationHandler.Create)
			r.Get("/{id}", cfg.ReservationHandler.Get)
			r.Post("/{id}/complete", cfg.ReservationHandler.Complete)
			r.Post("/{id}/fail", cfg.ReservationHandler.Fail)
			r.Post("/{id}/refund", cfg.ReservationHandler.Refund)
		})

		r.Get("/pricing", cfg.PricingHandler.Get)
	})

	return r
}
