package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/washtrack/washtrack/internal/app"
	jobmetrics "github.com/washtrack/washtrack/internal/jobs"
	"github.com/washtrack/washtrack/internal/platform/cache"
	"github.com/washtrack/washtrack/internal/platform/db"
	"github.com/washtrack/washtrack/internal/report"
	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
	"github.com/washtrack/washtrack/jobs"
)

type transactionTotals struct {
	repo *washtx.Repository
}

func (t transactionTotals) WorkOrderTotals(ctx context.Context, workOrderID int64) (int64, int64, error) {
	totals, err := t.repo.WorkOrderTotals(ctx, workOrderID)
	if err != nil {
		return 0, 0, err
	}
	return totals.Received, totals.Delivered, nil
}

type reportWarmup struct {
	service *report.Service
	cache   *report.Cache
}

func (r reportWarmup) WashStatus(ctx context.Context, workOrderID int64) error {
	_, err := r.service.WashStatus(ctx, workOrderID)
	return err
}

func (r reportWarmup) InvalidateCache(ctx context.Context) error {
	return r.cache.Bump(ctx)
}

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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	workOrderRepo := workorder.NewRepository(pool)
	workOrderService := workorder.NewService(workOrderRepo)
	washTxRepo := washtx.NewRepository(pool)

	reportCache := report.NewCache(redisClient, cfg.WashStatusCacheTTL)
	reportService := report.NewService(workOrderService, washTxRepo, reportCache)

	rollupJob := jobs.NewRollup(
		workOrderService,
		transactionTotals{repo: washTxRepo},
		reportWarmup{service: reportService, cache: reportCache},
		logger,
	).WithMetrics(jobmetrics.NewMetrics(nil))

	rollupTask, err := jobs.NewWashRollupTask(jobs.WashRollupPayload{})
	if err != nil {
		logger.Error("build rollup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskWashRollup, Handler: rollupJob.HandleWashRollup},
			{Type: jobs.TaskReportWarmup, Handler: rollupJob.HandleReportWarmup},
		},
		Cron: []jobs.CronRegistration{
			// Nightly repair of rollup drift, followed by a cache warmup.
			{Spec: "30 1 * * *", Task: rollupTask},
			{Spec: "45 1 * * *", Task: jobs.NewReportWarmupTask()},
		},
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
