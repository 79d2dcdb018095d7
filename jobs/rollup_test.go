package jobs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/washtrack/washtrack/internal/workorder"
)

type fakeWorkOrders struct {
	ids     []int64
	rollups map[int64]workorder.WashTotals
}

func (f *fakeWorkOrders) ListIDs(ctx context.Context) ([]int64, error) {
	return f.ids, nil
}

func (f *fakeWorkOrders) RollupWashTotals(ctx context.Context, id int64, totals workorder.WashTotals) error {
	if f.rollups == nil {
		f.rollups = make(map[int64]workorder.WashTotals)
	}
	f.rollups[id] = totals
	return nil
}

type fakeTotals struct {
	totals map[int64][2]int64
}

func (f *fakeTotals) WorkOrderTotals(ctx context.Context, workOrderID int64) (int64, int64, error) {
	t := f.totals[workOrderID]
	return t[0], t[1], nil
}

type fakeReports struct {
	warmed      []int64
	invalidated int
}

func (f *fakeReports) WashStatus(ctx context.Context, workOrderID int64) error {
	f.warmed = append(f.warmed, workOrderID)
	return nil
}

func (f *fakeReports) InvalidateCache(ctx context.Context) error {
	f.invalidated++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleWashRollupAll(t *testing.T) {
	workOrders := &fakeWorkOrders{ids: []int64{1, 2}}
	totals := &fakeTotals{totals: map[int64][2]int64{
		1: {100, 40},
		2: {50, 70},
	}}
	reports := &fakeReports{}
	job := NewRollup(workOrders, totals, reports, discardLogger())

	task, err := NewWashRollupTask(WashRollupPayload{})
	require.NoError(t, err)
	require.NoError(t, job.HandleWashRollup(context.Background(), task))

	require.Equal(t, workorder.WashTotals{Received: 100, Delivered: 40}, workOrders.rollups[1])
	require.Equal(t, workorder.WashTotals{Received: 50, Delivered: 70}, workOrders.rollups[2])
	require.Equal(t, 1, reports.invalidated)
}

func TestHandleWashRollupSingle(t *testing.T) {
	workOrders := &fakeWorkOrders{ids: []int64{1, 2, 3}}
	totals := &fakeTotals{totals: map[int64][2]int64{2: {10, 5}}}
	job := NewRollup(workOrders, totals, nil, discardLogger())

	task, err := NewWashRollupTask(WashRollupPayload{WorkOrderID: 2})
	require.NoError(t, err)
	require.NoError(t, job.HandleWashRollup(context.Background(), task))

	require.Len(t, workOrders.rollups, 1)
	require.Equal(t, workorder.WashTotals{Received: 10, Delivered: 5}, workOrders.rollups[2])
}

func TestHandleWashRollupBadPayload(t *testing.T) {
	job := NewRollup(&fakeWorkOrders{}, &fakeTotals{}, nil, discardLogger())
	task := asynq.NewTask(TaskWashRollup, []byte("{not json"))
	err := job.HandleWashRollup(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleReportWarmup(t *testing.T) {
	workOrders := &fakeWorkOrders{ids: []int64{4, 5}}
	reports := &fakeReports{}
	job := NewRollup(workOrders, &fakeTotals{}, reports, discardLogger())

	require.NoError(t, job.HandleReportWarmup(context.Background(), NewReportWarmupTask()))
	require.Equal(t, []int64{4, 5}, reports.warmed)
}

func TestWashRollupPayloadRoundTrip(t *testing.T) {
	task, err := NewWashRollupTask(WashRollupPayload{WorkOrderID: 9})
	require.NoError(t, err)
	var payload WashRollupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, int64(9), payload.WorkOrderID)
}
