package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/finbucket/fundledger/internal/adapter/http"
	"github.com/finbucket/fundledger/internal/adapter/http/handler"
	postgresRepo "github.com/finbucket/fundledger/internal/adapter/repository/postgres"
	redisRepo "github.com/finbucket/fundledger/internal/adapter/repository/redis"
	"github.com/finbucket/fundledger/internal/infrastructure/config"
	"github.com/finbucket/fundledger/internal/infrastructure/logger"
	"github.com/finbucket/fundledger/internal/infrastructure/metrics"
	"github.com/finbucket/fundledger/internal/infrastructure/postgres"
	"github.com/finbucket/fundledger/internal/infrastructure/redis"
	"github.com/finbucket/fundledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(appLogger, appMetrics)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	partitionRepo := postgresRepo.NewPartitionRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	sweepLock := redisRepo.NewSweepLock(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, retrier, accountRepo, partitionRepo, txnRepo, idGen, appMetrics)
	accountUC := usecase.NewAccountUseCase(accountRepo, partitionRepo, txnRepo, idGen, appMetrics)
	partitionUC := usecase.NewPartitionUseCase(txManager, retrier, accountRepo, partitionRepo, idGen, appMetrics)
	schedulerUC := usecase.NewSchedulerUseCase(ledgerUC, txManager, retrier, accountRepo, partitionRepo, txnRepo, idGen, sweepLock, appLogger, appMetrics)
	conservationUC := usecase.NewConservationUseCase(accountRepo, partitionRepo, txnRepo, cache, appMetrics)

	// Handlers
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		PartitionHandler:   handler.NewPartitionHandler(partitionUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC),
		SchedulerHandler:   handler.NewSchedulerHandler(schedulerUC),
		LedgerHandler:      handler.NewLedgerHandler(conservationUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		Logger:             appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sweepCtx, stopSweeps := context.WithCancel(ctx)
	if cfg.SweepEnabled {
		go runSweepLoop(sweepCtx, cfg.SweepInterval, "recurrence", func(ctx context.Context, now time.Time) (*usecase.SweepResult, error) {
			return schedulerUC.RunSweep(ctx, now)
		})
		go runSweepLoop(sweepCtx, cfg.InterestSweepInterval, "interest", func(ctx context.Context, now time.Time) (*usecase.SweepResult, error) {
			return schedulerUC.RunInterestSweep(ctx, now)
		})
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopSweeps()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func runSweepLoop(ctx context.Context, interval time.Duration, kind string, sweep func(context.Context, time.Time) (*usecase.SweepResult, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			result, err := sweep(ctx, now.UTC())
			if err != nil {
				log.Error().Err(err).Str("kind", kind).Msg("sweep failed")
				continue
			}

			if result.Skipped {
				continue
			}

			log.Info().
				Str("kind", kind).
				Int("scanned", result.Scanned).
				Int("executed", result.Executed).
				Int("failed", result.Failed).
				Msg("sweep completed")
		}
	}
}
