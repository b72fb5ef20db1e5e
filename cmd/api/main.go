// Command api runs the HTTP service: telemetry providers, repositories,
// services, and the REST surface, with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"telemetry-backend/interfaces/http/rest"
	"telemetry-backend/interfaces/http/rest/handlers"
	"telemetry-backend/interfaces/http/rest/middleware"
	"telemetry-backend/internal/config"
	"telemetry-backend/internal/logging"
	"telemetry-backend/internal/repository"
	"telemetry-backend/internal/repository/memory"
	"telemetry-backend/internal/repository/mysql"
	"telemetry-backend/internal/service"
	"telemetry-backend/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, level := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if cfg.OverridesFile != "" {
		watcher, err := config.NewWatcher(cfg.OverridesFile, level, logger)
		if err != nil {
			logger.Warn("config watcher unavailable",
				zap.String("path", cfg.OverridesFile), zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	tel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		SampleRate:     cfg.Telemetry.SampleRate,
		Enabled:        cfg.Telemetry.Enabled,
		ExportInterval: cfg.Telemetry.ExportInterval,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	userRepo, orderRepo, closeStore, err := buildRepositories(ctx, cfg, tel, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	users := service.NewUserService(userRepo, tel.Registry, tel.Tracer)
	orders := service.NewOrderService(orderRepo, tel.Registry, tel.Tracer)

	collector := middleware.NewCollector("telemetry_backend")
	router := rest.NewRouter(rest.Dependencies{
		Logger:    logger,
		Collector: collector,
		Users:     handlers.NewUserHandler(users, tel.Tracer),
		Orders:    handlers.NewOrderHandler(orders, tel.Tracer),
		Health:    handlers.NewHealthHandler(cfg.Telemetry.ServiceName, tel.Registry),
		RootSpan:  middleware.RootSpan(tel.Tracer),
	})

	server := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tel.Registry.Increment(logging.WithLogger(ctx, logger), telemetry.ApplicationStartupsTotal)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// buildRepositories wires MySQL stores when a DSN is configured, otherwise
// the in-memory stores used for development.
func buildRepositories(ctx context.Context, cfg *config.Config, tel *telemetry.Telemetry, logger *zap.Logger) (repository.UserRepository, repository.OrderRepository, func(), error) {
	if cfg.Database.DSN == "" {
		logger.Info("no database configured, using in-memory repositories")
		return memory.NewUserRepository(), memory.NewOrderRepository(), func() {}, nil
	}

	db, err := mysql.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := mysql.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	logger.Info("connected to database")

	return mysql.NewUserRepository(db, tel.Registry),
		mysql.NewOrderRepository(db, tel.Registry),
		func() { _ = db.Close() },
		nil
}
