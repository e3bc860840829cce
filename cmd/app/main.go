package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-core/internal/analytics"
	"shop-core/internal/catalog"
	"shop-core/internal/config"
	"shop-core/internal/events"
	"shop-core/internal/httpserver"
	"shop-core/internal/logging"
	"shop-core/internal/metrics"
	"shop-core/internal/snapshot"
	"shop-core/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	logger.Info("starting shop-core", "env", cfg.AppEnv, "snapshot_backend", cfg.SnapshotBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricRegistry := metrics.Registry(cfg.MetricsNamespace)

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init snapshot backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("failed closing snapshot backend", "error", err)
		}
	}()

	snapStore := snapshot.NewStore(backend, logger, metricRegistry)

	entityStore := store.New(store.Options{
		Metrics: metricRegistry,
		Logger:  logger,
	})

	snap, err := snapStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	entityStore.Restore(snap)
	logger.Info("store restored", "collections", entityStore.Counts())

	scheduler := snapshot.NewScheduler(func(ctx context.Context) error {
		return snapStore.Save(ctx, entityStore.Export())
	}, cfg.SnapshotDebounce, logger)
	defer scheduler.Close()
	entityStore.SetPersister(scheduler)

	if len(entityStore.ListAllProducts()) == 0 {
		if err := catalog.Seed(entityStore); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		logger.Info("catalog seeded", "products", len(entityStore.ListProducts()))
		scheduler.Request()
	}

	unsubscribe := entityStore.Bus().Subscribe(func(e events.Event) {
		logger.Debug("event", "type", string(e.Type))
	})
	defer unsubscribe()

	engine := analytics.New(entityStore, logger)

	httpSrv := httpserver.New(cfg.HTTPListenAddr, logger, metricRegistry, httpserver.Dependencies{
		Store:     entityStore,
		Analytics: engine,
		Persister: scheduler,
	}, cfg.PublicBasePath)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := scheduler.Flush(shutdownCtx); err != nil {
		logger.Error("final snapshot flush failed", "error", err)
	}

	return nil
}

func newBackend(ctx context.Context, cfg *config.Config) (snapshot.Backend, error) {
	switch cfg.SnapshotBackend {
	case "sqlite":
		return snapshot.NewSQLiteBackend(ctx, cfg.SQLitePath)
	case "postgres":
		return snapshot.NewPostgresBackend(ctx, cfg.DatabaseURL)
	case "redis":
		return snapshot.NewRedisBackend(ctx, snapshot.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			UseTLS:    cfg.RedisTLS,
			KeyPrefix: cfg.SnapshotKeyPfx,
		})
	default:
		return snapshot.NewFileBackend(cfg.SnapshotDir)
	}
}
