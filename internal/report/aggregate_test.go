package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
)

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateWashStatusBalances(t *testing.T) {
	wo := workorder.WorkOrder{ID: 1, WorkOrderNo: "WO-1", OrderQuantity: 200}
	txs := []washtx.Transaction{
		{WorkOrderID: 1, StageName: "1st Dry", Type: washtx.TypeReceive, Quantity: 100, TransactionDate: day(1)},
		{WorkOrderID: 1, StageName: "1st Dry", Type: washtx.TypeDelivery, Quantity: 40, TransactionDate: day(2)},
		{WorkOrderID: 1, StageName: "1st Wash", Type: washtx.TypeReceive, Quantity: 40, TransactionDate: day(3)},
		{WorkOrderID: 2, StageName: "1st Dry", Type: washtx.TypeReceive, Quantity: 999, TransactionDate: day(4)},
	}

	status := AggregateWashStatus(wo, txs)
	require.Len(t, status.Stages, 2)

	dry := status.Stages[0]
	require.Equal(t, "1st Dry", dry.StageName)
	require.Equal(t, int64(100), dry.TotalReceived)
	require.Equal(t, int64(40), dry.TotalDelivered)
	require.Equal(t, int64(60), dry.CurrentBalance)
	require.NotNil(t, dry.LastReceiveDate)
	require.Equal(t, day(1), *dry.LastReceiveDate)
	require.NotNil(t, dry.LastDeliveryDate)
	require.Equal(t, day(2), *dry.LastDeliveryDate)

	wash := status.Stages[1]
	require.Equal(t, "1st Wash", wash.StageName)
	require.Nil(t, wash.LastDeliveryDate)

	require.Equal(t, int64(140), status.TotalReceived)
	require.Equal(t, int64(40), status.TotalDelivered)
	require.Equal(t, int64(100), status.CurrentBalance)
	require.InDelta(t, 20.0, status.CompletionPercentage, 0.001)
}

func TestAggregateWashStatusNegativeBalanceNotClamped(t *testing.T) {
	wo := workorder.WorkOrder{ID: 1, OrderQuantity: 100}
	txs := []washtx.Transaction{
		{WorkOrderID: 1, StageName: "Final Wash", Type: washtx.TypeReceive, Quantity: 50, TransactionDate: day(1)},
		{WorkOrderID: 1, StageName: "Final Wash", Type: washtx.TypeDelivery, Quantity: 120, TransactionDate: day(2)},
	}
	status := AggregateWashStatus(wo, txs)
	require.Equal(t, int64(-70), status.Stages[0].CurrentBalance)
	require.Equal(t, int64(-70), status.CurrentBalance)
	require.InDelta(t, 120.0, status.CompletionPercentage, 0.001)
}

func TestAggregateWashStatusZeroOrderQuantity(t *testing.T) {
	wo := workorder.WorkOrder{ID: 1, OrderQuantity: 0}
	txs := []washtx.Transaction{
		{WorkOrderID: 1, StageName: "Unwash", Type: washtx.TypeDelivery, Quantity: 10, TransactionDate: day(1)},
	}
	status := AggregateWashStatus(wo, txs)
	require.Zero(t, status.CompletionPercentage)
}

func TestAggregateWashStatusEmpty(t *testing.T) {
	status := AggregateWashStatus(workorder.WorkOrder{ID: 1, OrderQuantity: 100}, nil)
	require.Empty(t, status.Stages)
	require.Zero(t, status.TotalReceived)
	require.Zero(t, status.TotalDelivered)
	require.Zero(t, status.CurrentBalance)
	require.Zero(t, status.CompletionPercentage)
}

func TestAggregateWashStatusLastDatesTakeMaximum(t *testing.T) {
	wo := workorder.WorkOrder{ID: 1, OrderQuantity: 10}
	txs := []washtx.Transaction{
		{WorkOrderID: 1, StageName: "2nd Dry", Type: washtx.TypeReceive, Quantity: 1, TransactionDate: day(9)},
		{WorkOrderID: 1, StageName: "2nd Dry", Type: washtx.TypeReceive, Quantity: 1, TransactionDate: day(3)},
	}
	status := AggregateWashStatus(wo, txs)
	require.Equal(t, day(9), *status.Stages[0].LastReceiveDate)
}
