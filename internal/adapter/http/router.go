package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/finbucket/fundledger/internal/adapter/http/handler"
	"github.com/finbucket/fundledger/internal/adapter/http/middleware"
	"github.com/finbucket/fundledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	PartitionHandler   *handler.PartitionHandler
	TransactionHandler *handler.TransactionHandler
	SchedulerHandler   *handler.SchedulerHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Owner)

		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}", cfg.AccountHandler.Update)
			r.Post("/{id}/archive", cfg.AccountHandler.Archive)
			r.Delete("/{id}", cfg.AccountHandler.Delete)

			r.Route("/{id}/partitions", func(r chi.Router) {
				r.Post("/", cfg.PartitionHandler.Create)
				r.Get("/", cfg.PartitionHandler.List)
				r.Get("/{partitionID}", cfg.PartitionHandler.Get)
				r.Put("/{partitionID}/holdings", cfg.PartitionHandler.UpdateHoldings)
				r.Delete("/{partitionID}", cfg.PartitionHandler.Delete)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
			r.Post("/{id}/execute", cfg.SchedulerHandler.Execute)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/partition", cfg.TransactionHandler.TransferFunds)
			r.Post("/partition-to-partition", cfg.TransactionHandler.TransferBetweenPartitions)
		})

		r.Route("/scheduler", func(r chi.Router) {
			r.Post("/sweep", cfg.SchedulerHandler.Sweep)
			r.Post("/interest", cfg.SchedulerHandler.InterestSweep)
		})

		r.Get("/ledger/conservation", cfg.LedgerHandler.Conservation)
	})

	return r
}
