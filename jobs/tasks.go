package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskWashRollup recomputes the wash totals of one work order, or of
	// every work order when the payload carries no ID.
	TaskWashRollup = "wash:rollup"
	// TaskReportWarmup precomputes wash-status aggregates into the report
	// cache.
	TaskReportWarmup = "report:warmup"
)

// WashRollupPayload identifies the work order to roll up. A zero
// WorkOrderID means all work orders.
type WashRollupPayload struct {
	WorkOrderID int64 `json:"work_order_id"`
}

// NewWashRollupTask constructs a rollup task.
func NewWashRollupTask(payload WashRollupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWashRollup, data), nil
}

// NewReportWarmupTask constructs a cache warmup task.
func NewReportWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskReportWarmup, nil)
}
