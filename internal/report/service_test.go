package report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
)

type fakeWorkOrders struct {
	orders   map[int64]workorder.WorkOrder
	getCalls int
}

func (f *fakeWorkOrders) Get(ctx context.Context, id int64) (*workorder.WorkOrder, error) {
	f.getCalls++
	if wo, ok := f.orders[id]; ok {
		return &wo, nil
	}
	return nil, workorder.ErrNotFound
}

func (f *fakeWorkOrders) ListAll(ctx context.Context) ([]workorder.WorkOrder, error) {
	out := make([]workorder.WorkOrder, 0, len(f.orders))
	for _, wo := range f.orders {
		out = append(out, wo)
	}
	return out, nil
}

type fakeTransactions struct {
	txs []washtx.Transaction
}

func (f *fakeTransactions) List(ctx context.Context, filter washtx.ListFilter) ([]washtx.Transaction, int, error) {
	var out []washtx.Transaction
	for _, tx := range f.txs {
		if filter.WorkOrderID != nil && tx.WorkOrderID != *filter.WorkOrderID {
			continue
		}
		out = append(out, tx)
	}
	return out, len(out), nil
}

func (f *fakeTransactions) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]washtx.Transaction, error) {
	var out []washtx.Transaction
	for _, tx := range f.txs {
		if tx.WorkOrderID == workOrderID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func testService(t *testing.T) (*Service, *fakeWorkOrders, *fakeTransactions) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	workOrders := &fakeWorkOrders{orders: map[int64]workorder.WorkOrder{
		1: {ID: 1, WorkOrderNo: "WO-1", FastReactNo: "FR-1", OrderQuantity: 100},
	}}
	transactions := &fakeTransactions{txs: []washtx.Transaction{
		{ID: 1, WorkOrderID: 1, StageName: "1st Dry", Type: washtx.TypeReceive, Quantity: 60,
			TransactionDate: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, WorkOrderID: 1, StageName: "1st Dry", Type: washtx.TypeDelivery, Quantity: 20,
			TransactionDate: time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(workOrders, transactions, NewCache(client, time.Minute))
	return svc, workOrders, transactions
}

func TestTransactionRowsJoins(t *testing.T) {
	svc, _, _ := testService(t)

	rows, err := svc.TransactionRows(context.Background(), washtx.ListFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "WO-1", rows[0].WorkOrderNo)
	require.Equal(t, "FR-1", rows[0].FastReactNo)
}

func TestWashStatusIsCached(t *testing.T) {
	svc, workOrders, _ := testService(t)
	ctx := context.Background()

	status, err := svc.WashStatus(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(40), status.CurrentBalance)
	require.Equal(t, 1, workOrders.getCalls)

	// Second read is served from the cache.
	status, err = svc.WashStatus(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(40), status.CurrentBalance)
	require.Equal(t, 1, workOrders.getCalls)

	// A totals change bumps the version and forces a recompute.
	svc.WashTotalsChanged(ctx, 1)
	_, err = svc.WashStatus(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, workOrders.getCalls)
}

func TestWashStatusUnknownWorkOrder(t *testing.T) {
	svc, _, _ := testService(t)
	_, err := svc.WashStatus(context.Background(), 999)
	require.ErrorIs(t, err, workorder.ErrNotFound)
}
