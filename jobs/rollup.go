package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/washtrack/washtrack/internal/jobs"
	"github.com/washtrack/washtrack/internal/workorder"
)

// WorkOrderRollupPort exposes the work order operations the rollup job
// needs.
type WorkOrderRollupPort interface {
	ListIDs(ctx context.Context) ([]int64, error)
	RollupWashTotals(ctx context.Context, id int64, totals workorder.WashTotals) error
}

// TransactionTotalsPort sums wash transactions for one work order.
type TransactionTotalsPort interface {
	WorkOrderTotals(ctx context.Context, workOrderID int64) (received, delivered int64, err error)
}

// ReportWarmupPort precomputes and invalidates cached report aggregates.
type ReportWarmupPort interface {
	WashStatus(ctx context.Context, workOrderID int64) error
	InvalidateCache(ctx context.Context) error
}

// Rollup recomputes work order wash totals from the transaction ledger.
// The nightly run repairs any drift left by failed inline refreshes.
type Rollup struct {
	workOrders   WorkOrderRollupPort
	transactions TransactionTotalsPort
	reports      ReportWarmupPort
	logger       *slog.Logger
	metrics      *jobmetrics.Metrics
}

// NewRollup constructs the rollup job. reports may be nil.
func NewRollup(workOrders WorkOrderRollupPort, transactions TransactionTotalsPort, reports ReportWarmupPort, logger *slog.Logger) *Rollup {
	return &Rollup{workOrders: workOrders, transactions: transactions, reports: reports, logger: logger}
}

// WithMetrics attaches job instrumentation.
func (j *Rollup) WithMetrics(m *jobmetrics.Metrics) *Rollup {
	j.metrics = m
	return j
}

// HandleWashRollup processes TaskWashRollup tasks.
func (j *Rollup) HandleWashRollup(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track("wash_rollup")
	var payload WashRollupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
	}

	ids := []int64{payload.WorkOrderID}
	if payload.WorkOrderID == 0 {
		var err error
		ids, err = j.workOrders.ListIDs(ctx)
		if err != nil {
			return tracker.End(err)
		}
	}

	for _, id := range ids {
		if err := j.rollupOne(ctx, id); err != nil {
			j.logger.Warn("wash rollup", slog.Int64("work_order_id", id), slog.Any("error", err))
		}
	}

	if j.reports != nil {
		if err := j.reports.InvalidateCache(ctx); err != nil {
			j.logger.Warn("invalidate report cache", slog.Any("error", err))
		}
	}
	j.logger.Info("wash rollup complete", slog.Int("work_orders", len(ids)))
	return tracker.End(nil)
}

// HandleReportWarmup processes TaskReportWarmup tasks by touching the
// wash-status aggregate of every work order, filling the report cache.
func (j *Rollup) HandleReportWarmup(ctx context.Context, t *asynq.Task) error {
	if j.reports == nil {
		return nil
	}
	tracker := j.metrics.Track("report_warmup")
	ids, err := j.workOrders.ListIDs(ctx)
	if err != nil {
		return tracker.End(err)
	}
	warmed := 0
	for _, id := range ids {
		if err := j.reports.WashStatus(ctx, id); err != nil {
			j.logger.Warn("report warmup", slog.Int64("work_order_id", id), slog.Any("error", err))
			continue
		}
		warmed++
	}
	j.logger.Info("report warmup complete", slog.Int("warmed", warmed))
	return tracker.End(nil)
}

func (j *Rollup) rollupOne(ctx context.Context, id int64) error {
	received, delivered, err := j.transactions.WorkOrderTotals(ctx, id)
	if err != nil {
		return err
	}
	return j.workOrders.RollupWashTotals(ctx, id, workorder.WashTotals{
		Received:  received,
		Delivered: delivered,
	})
}
