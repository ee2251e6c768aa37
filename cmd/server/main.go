package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/scaap/striperecon/internal/adapter/http"
	"github.com/scaap/striperecon/internal/adapter/http/handler"
	postgresRepo "github.com/scaap/striperecon/internal/adapter/repository/postgres"
	redisRepo "github.com/scaap/striperecon/internal/adapter/repository/redis"
	"github.com/scaap/striperecon/internal/infrastructure/config"
	"github.com/scaap/striperecon/internal/infrastructure/idgen"
	"github.com/scaap/striperecon/internal/infrastructure/logger"
	"github.com/scaap/striperecon/internal/infrastructure/metrics"
	"github.com/scaap/striperecon/internal/infrastructure/postgres"
	"github.com/scaap/striperecon/internal/infrastructure/redis"
	"github.com/scaap/striperecon/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Ledger persistence is optional. Without a database every request must
	// carry its own ledger CSV.
	var pool *pgxpool.Pool
	var ledgerStore usecase.LedgerStore
	if cfg.DatabaseURL != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		ledgerStore = postgresRepo.NewLedgerStore(pool)
		log.Info().Msg("connected to postgres")
	}

	// Redis is optional as well; without it uploads are not deduplicated.
	var redisClient *goredis.Client
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		log.Info().Msg("connected to redis")
	}

	recon := usecase.NewReconcileUseCase(idgen.NewULIDGenerator(), appLogger)
	m := metrics.New()

	reconcileHandler := handler.NewReconcileHandler(recon, ledgerStore, m, appLogger, cfg.MaxUploadBytes)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ReconcileHandler: reconcileHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
