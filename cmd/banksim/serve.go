package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bank-simulator/config"
	httpHandler "bank-simulator/internal/adapter/http/handler"
	"bank-simulator/internal/adapter/storage/memory"
	pgStorage "bank-simulator/internal/adapter/storage/postgres"
	redisStorage "bank-simulator/internal/adapter/storage/redis"
	"bank-simulator/internal/core/ledger"
	"bank-simulator/internal/core/ports"
	"bank-simulator/internal/service"
	"bank-simulator/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API",
		Long:  `Start the ledger HTTP API. Configuration is read from --config (or ./config.yaml) and BANKSIM_* variables.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) (err error) {
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("savings_min_balance", cfg.Ledger.MinBalance().String()).
		Msg("Starting bank simulator")

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	var (
		healthCheckers   []ports.HealthChecker
		idempotencyCache ports.IdempotencyCache
		rateLimitStore   ports.RateLimitStore
		auditRepo        ports.AuditRepository
	)

	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		closers = append(closers, rdb.Close)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr()).Msg("Redis connected")

		if cfg.Idempotency.Backend == "redis" {
			idempotencyCache = redisStorage.NewIdempotencyCache(rdb)
		}
		if cfg.RateLimit.Enabled && cfg.RateLimit.Backend == "redis" {
			rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		}
	}
	if idempotencyCache == nil {
		idempotencyCache = memory.NewIdempotencyCache(10 * time.Minute)
	}
	if cfg.RateLimit.Enabled && rateLimitStore == nil {
		rateLimitStore = memory.NewRateLimitStore(5 * time.Minute)
	}

	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		closers = append(closers, func() error { pool.Close(); return nil })
		repo := pgStorage.NewAuditRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("preparing audit schema: %w", err)
		}
		auditRepo = repo
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
		log.Info().Str("dbname", cfg.Database.DBName).Msg("PostgreSQL audit trail connected")
	}

	l := ledger.New(cfg.Ledger.MinBalance())
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:        service.NewLedgerService(l, logger.Component(log, "ledger")),
		ReportingSvc:     service.NewReportingService(l),
		AuditSvc:         service.NewAuditService(auditRepo, logger.Component(log, "audit")),
		IdempotencyCache: idempotencyCache,
		IdempotencyTTL:   cfg.Idempotency.TTL,
		RateLimitStore:   rateLimitStore,
		HealthCheckers:   healthCheckers,
		Logger:           logger.Component(log, "http"),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().
		Int("accounts", l.Len()).
		Int64("transactions", l.TransactionCount()).
		Msg("Server exited")
	return nil
}
