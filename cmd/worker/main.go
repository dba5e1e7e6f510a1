package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian-erp/internal/app"
	"github.com/meridian-erp/meridian-erp/internal/dashboard"
	"github.com/meridian-erp/meridian-erp/internal/platform/cache"
	"github.com/meridian-erp/meridian-erp/internal/platform/db"
	"github.com/meridian-erp/meridian-erp/internal/platform/erpapi"
	"github.com/meridian-erp/meridian-erp/internal/shared"
	"github.com/meridian-erp/meridian-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	sweeper := jobs.SessionSweeper{Client: redisClient, Logger: logger}
	cleaner := jobs.IdempotencyCleaner{Store: shared.NewIdempotencyStore(pool), Logger: logger}

	handlers := []jobs.TaskHandler{
		{Type: jobs.TaskSessionSweep, Handler: sweeper.Handle},
		{Type: jobs.TaskIdempotencyCleanup, Handler: cleaner.Handle},
	}

	sweepTask, err := jobs.NewSessionSweepTask(jobs.SessionSweepPayload{IdleLimit: cfg.IdleTimeout})
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	cleanupTask, err := jobs.NewIdempotencyCleanupTask(jobs.IdempotencyCleanupPayload{Retention: 7 * 24 * time.Hour})
	if err != nil {
		logger.Error("build cleanup task", slog.Any("error", err))
		os.Exit(1)
	}
	cron := []jobs.CronRegistration{
		{Spec: "*/10 * * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		{Spec: "0 3 * * *", Task: cleanupTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
	}

	// The warmer runs only when a service token is configured; it has no
	// user session to borrow credentials from.
	if cfg.APIServiceToken != "" {
		apiClient := erpapi.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout}, func(context.Context) string {
			return cfg.APIServiceToken
		})
		dashboardService := dashboard.NewService(logger, apiClient, redisClient, cfg.DashboardCacheTTL)
		warmer := jobs.DashboardWarmer{Rebuilder: dashboardService, Logger: logger}
		handlers = append(handlers, jobs.TaskHandler{Type: jobs.TaskDashboardWarm, Handler: warmer.Handle})
		cron = append(cron, jobs.CronRegistration{
			Spec:    "*/5 * * * *",
			Task:    jobs.NewDashboardWarmTask(),
			Options: []asynq.Option{asynq.MaxRetry(2)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  handlers,
		Cron:      cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
