package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authgate/backend/internal/config"
	domain "authgate/backend/internal/domain/auth"
	"authgate/backend/internal/httpserver"
	"authgate/backend/internal/infrastructure/memory"
	"authgate/backend/internal/infrastructure/password"
	"authgate/backend/internal/infrastructure/postgres"
	"authgate/backend/internal/infrastructure/token"
	"authgate/backend/internal/logging"
	"authgate/backend/internal/observability"
	authusecase "authgate/backend/internal/usecase/auth"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, closeStore, err := openUserStore(rootCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	pool := password.NewPool(hasher, cfg.HashWorkers, metrics.ObservePasswordOp)
	tokenManager := token.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer)

	authService := authusecase.NewService(users, pool, tokenManager)
	server := httpserver.NewServer(cfg, logger, metrics, authService, tokenManager)

	logger.Info("HTTP server listening",
		"addr", server.Addr(),
		"storage", cfg.StorageDriver,
		"bcrypt_cost", hasher.Cost(),
		"token_ttl", cfg.JWTExpiry,
	)

	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			return err
		}
		logger.Info("graceful shutdown completed")
		return nil
	})
	return g.Wait()
}

func openUserStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (domain.UserRepository, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("using in-memory user store; accounts are lost on restart")
		return memory.NewUserRepository(), func() {}, nil
	}

	db, err := postgres.New(ctx, cfg.DatabaseURL, int32(cfg.DatabaseMaxConns))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run database migrations: %w", err)
	}
	return postgres.NewUserRepository(db.Pool), db.Close, nil
}
