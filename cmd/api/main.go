package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-catalog/internal/api/http"
	"github.com/spec-kit/staff-catalog/internal/api/http/handlers"
	"github.com/spec-kit/staff-catalog/internal/config"
	"github.com/spec-kit/staff-catalog/internal/events"
	"github.com/spec-kit/staff-catalog/internal/observability"
	"github.com/spec-kit/staff-catalog/internal/persistence"
	"github.com/spec-kit/staff-catalog/internal/repository"
	"github.com/spec-kit/staff-catalog/internal/service"
	"github.com/spec-kit/staff-catalog/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var staffRepo repository.StaffRepository
	if pool := pg.PoolHandle(); pool != nil {
		staffRepo = repository.NewStaffRepository(pool)
	} else {
		staffRepo = repository.NewMemoryStaffRepository()
	}

	var nameGuard service.NameGuard
	if cfg.Staff.NameLockEnabled {
		if guard := persistence.NewRedisNameGuard(redis, cfg.Staff.NameLockTTL(), cfg.Staff.NameLockWait(), logger); guard != nil {
			nameGuard = guard
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo:  staffRepo,
		NameGuard:  nameGuard,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	metrics := observability.NewMetrics()
	app := httptransport.NewServer(httptransport.ServerOptions{
		AppName:        cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
			Staff:  handlers.NewStaffHandler(staffService, logger),
		},
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
