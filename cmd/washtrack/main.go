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

	"github.com/washtrack/washtrack/internal/app"
	"github.com/washtrack/washtrack/internal/auth"
	"github.com/washtrack/washtrack/internal/observability"
	"github.com/washtrack/washtrack/internal/platform/cache"
	"github.com/washtrack/washtrack/internal/platform/db"
	"github.com/washtrack/washtrack/internal/rbac"
	"github.com/washtrack/washtrack/internal/report"
	"github.com/washtrack/washtrack/internal/roles"
	"github.com/washtrack/washtrack/internal/shared"
	"github.com/washtrack/washtrack/internal/stage"
	"github.com/washtrack/washtrack/internal/users"
	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
	"github.com/washtrack/washtrack/jobs"
)

// washNotifier fans a wash-totals change out to the report cache and
// the background rollup queue.
type washNotifier struct {
	reports *report.Service
	jobs    *jobs.Client
	logger  *slog.Logger
}

func (n washNotifier) WashTotalsChanged(ctx context.Context, workOrderID int64) {
	n.reports.WashTotalsChanged(ctx, workOrderID)
	if n.jobs == nil {
		return
	}
	_, err := n.jobs.EnqueueWashRollup(ctx, jobs.WashRollupPayload{WorkOrderID: workOrderID})
	if err != nil {
		n.logger.Warn("enqueue wash rollup", slog.Int64("work_order_id", workOrderID), slog.Any("error", err))
	}
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionManager := shared.NewSessionManager(redisClient, "washtrack_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	rbacService := rbac.NewService(dbpool)
	rbacMiddleware := rbac.Middleware{Source: rbacService, Logger: logger}

	workOrderRepo := workorder.NewRepository(dbpool)
	workOrderService := workorder.NewService(workOrderRepo)

	stageRepo := stage.NewRepository(dbpool)
	stageService := stage.NewService(stageRepo, redisClient, cfg.StageCacheTTL)

	reportCache := report.NewCache(redisClient, cfg.WashStatusCacheTTL)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	washTxRepo := washtx.NewRepository(dbpool)
	reportService := report.NewService(workOrderService, washTxRepo, reportCache)
	notifier := washNotifier{reports: reportService, jobs: jobClient, logger: logger}
	washTxService := washtx.NewService(washTxRepo, workOrderService, stageService, notifier, logger).
		WithAudit(shared.NewAuditLogger(dbpool))

	metrics := observability.NewMetrics()

	workOrderHandler := workorder.NewHandler(logger, workOrderService, rbacMiddleware)
	washTxHandler := washtx.NewHandler(logger, washTxService, rbacMiddleware)
	stageHandler := stage.NewHandler(logger, stageService, rbacMiddleware)
	reportHandler := report.NewHandler(logger, reportService, metrics, rbacMiddleware)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Metrics:          metrics,
		AuthHandler:      authHandler,
		WorkOrderHandler: workOrderHandler,
		WashTxHandler:    washTxHandler,
		StageHandler:     stageHandler,
		ReportHandler:    reportHandler,
		UsersHandler:     usersHandler,
		RolesHandler:     rolesHandler,
		JobHandler:       jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
