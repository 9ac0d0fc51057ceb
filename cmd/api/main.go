package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldops_backend/internal/adapters/storage"
	"fieldops_backend/internal/auth"
	"fieldops_backend/internal/catalog"
	"fieldops_backend/internal/dashboard"
	"fieldops_backend/internal/events"
	apphttp "fieldops_backend/internal/http"
	"fieldops_backend/internal/http/router"
	"fieldops_backend/internal/notification"
	"fieldops_backend/internal/photoreview"
	"fieldops_backend/internal/requests"
	"fieldops_backend/internal/schedule"
	"fieldops_backend/internal/scheduler"
	"fieldops_backend/internal/teams"
	"fieldops_backend/internal/timeclock"
	"fieldops_backend/platform/cache"
	"fieldops_backend/platform/config"
	"fieldops_backend/platform/db"
	"fieldops_backend/platform/logger"
	"fieldops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Redis-backed cache for the dashboard stats; the dashboard degrades to
	// uncached queries when redis is not configured.
	var statsCache *cache.Cache
	if cfg.IsRedisEnabled() {
		statsCache, err = cache.New(cfg.GetRedisURL())
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		defer statsCache.Close()
		log.Info("redis cache connected")
	} else {
		log.Warn("REDIS_URL not configured; dashboard stats caching disabled")
	}

	// Storage service for photo uploads (MinIO)
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure photo bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketServicePhotos())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketServicePhotos())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "photoBucket", cfg.GetMinioBucketServicePhotos())

	// Asynq client enqueues service reminders; the worker binary consumes them.
	reminderEnqueuer, closeScheduler := initReminderEnqueuer(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}
	reminderEnqueuer.Register(eventBus)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewModule(pool, eventBus, cfg, log)

	authModule := auth.NewModule(pool, cfg, val, log)
	catalogModule := catalog.NewModule(pool, val, log)
	requestsModule := requests.NewModule(pool, val, log)
	scheduleModule := schedule.NewModule(pool, eventBus, val, log)
	teamsModule := teams.NewModule(pool, val, log)
	timeclockModule := timeclock.NewModule(pool, val, log)
	photoReviewModule := photoreview.NewModule(pool, storageSvc, cfg, eventBus, val, log)
	dashboardModule := dashboard.NewModule(pool, statsCache, cfg.GetDashboardStatsTTL(), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			requestsModule,
			scheduleModule,
			teamsModule,
			timeclockModule,
			photoReviewModule,
			dashboardModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderEnqueuer(cfg *config.Config, log *logger.Logger) (*scheduler.ReminderEnqueuer, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; service reminders disabled")
		return scheduler.NewReminderEnqueuer(nil, cfg.GetReminderLeadTime(), log), nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return scheduler.NewReminderEnqueuer(nil, cfg.GetReminderLeadTime(), log), nil
	}

	return scheduler.NewReminderEnqueuer(client, cfg.GetReminderLeadTime(), log), func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
