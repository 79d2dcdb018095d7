package washtx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/washtrack/washtrack/internal/shared"
	"github.com/washtrack/washtrack/internal/stage"
	"github.com/washtrack/washtrack/internal/workorder"
)

type memoryRepo struct {
	txs    []Transaction
	nextID int64
}

func (r *memoryRepo) Insert(ctx context.Context, tx Transaction) (*Transaction, error) {
	r.nextID++
	tx.ID = r.nextID
	tx.CreatedAt = time.Now()
	r.txs = append(r.txs, tx)
	return &tx, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Transaction, error) {
	for _, tx := range r.txs {
		if tx.ID == id {
			return &tx, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Transaction, int, error) {
	var out []Transaction
	for _, tx := range r.txs {
		if filter.WorkOrderID != nil && tx.WorkOrderID != *filter.WorkOrderID {
			continue
		}
		out = append(out, tx)
	}
	return out, len(out), nil
}

func (r *memoryRepo) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]Transaction, error) {
	txs, _, err := r.List(ctx, ListFilter{WorkOrderID: &workOrderID})
	return txs, err
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) (*Transaction, error) {
	for i, tx := range r.txs {
		if tx.ID == id {
			r.txs = append(r.txs[:i], r.txs[i+1:]...)
			return &tx, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) StageTotals(ctx context.Context, workOrderID, stageID int64) (StageTotals, error) {
	var totals StageTotals
	for _, tx := range r.txs {
		if tx.WorkOrderID != workOrderID || tx.StageID != stageID {
			continue
		}
		switch tx.Type {
		case TypeReceive:
			totals.Received += tx.Quantity
		case TypeDelivery:
			totals.Delivered += tx.Quantity
		}
	}
	return totals, nil
}

func (r *memoryRepo) WorkOrderTotals(ctx context.Context, workOrderID int64) (StageTotals, error) {
	var totals StageTotals
	for _, tx := range r.txs {
		if tx.WorkOrderID != workOrderID {
			continue
		}
		switch tx.Type {
		case TypeReceive:
			totals.Received += tx.Quantity
		case TypeDelivery:
			totals.Delivered += tx.Quantity
		}
	}
	return totals, nil
}

type fakeWorkOrders struct {
	orders  map[int64]*workorder.WorkOrder
	rollups map[int64]workorder.WashTotals
}

func (f *fakeWorkOrders) Get(ctx context.Context, id int64) (*workorder.WorkOrder, error) {
	if wo, ok := f.orders[id]; ok {
		return wo, nil
	}
	return nil, workorder.ErrNotFound
}

func (f *fakeWorkOrders) RollupWashTotals(ctx context.Context, id int64, totals workorder.WashTotals) error {
	if f.rollups == nil {
		f.rollups = make(map[int64]workorder.WashTotals)
	}
	f.rollups[id] = totals
	return nil
}

type fakeStages struct{}

func (fakeStages) Get(ctx context.Context, id int64) (*stage.Stage, error) {
	names := map[int64]string{1: "1st Dry", 2: "Unwash", 3: "1st Wash", 4: "2nd Dry", 5: "Final Wash"}
	name, ok := names[id]
	if !ok {
		return nil, stage.ErrNotFound
	}
	return &stage.Stage{ID: id, Name: name}, nil
}

type recordingNotifier struct {
	changed []int64
}

func (n *recordingNotifier) WashTotalsChanged(ctx context.Context, workOrderID int64) {
	n.changed = append(n.changed, workOrderID)
}

func newTestService() (*Service, *memoryRepo, *fakeWorkOrders, *recordingNotifier) {
	repo := &memoryRepo{}
	orders := &fakeWorkOrders{orders: map[int64]*workorder.WorkOrder{
		7: {ID: 7, WorkOrderNo: "WO-7", OrderQuantity: 1000},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(repo, orders, fakeStages{}, notifier, nil)
	return svc, repo, orders, notifier
}

func TestCreateReceiveUpdatesRollup(t *testing.T) {
	svc, _, orders, notifier := newTestService()
	ctx := context.Background()

	result, err := svc.Create(ctx, "operator1", CreateRequest{
		WorkOrderID: 7, StageID: 1, Type: 1, Quantity: 100, BatchNo: "B-001",
	})
	require.NoError(t, err)
	require.Empty(t, result.Warning)
	require.Equal(t, "1st Dry", result.Transaction.StageName)
	require.Equal(t, "operator1", result.Transaction.CreatedBy)

	require.Equal(t, int64(100), orders.rollups[7].Received)
	require.Equal(t, int64(0), orders.rollups[7].Delivered)
	require.Equal(t, []int64{7}, notifier.changed)
}

func TestCreateDeliveryWarnsOnInsufficientBalance(t *testing.T) {
	svc, _, orders, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "op", CreateRequest{WorkOrderID: 7, StageID: 1, Type: 1, Quantity: 40})
	require.NoError(t, err)

	result, err := svc.Create(ctx, "op", CreateRequest{
		WorkOrderID: 7, StageID: 1, Type: 2, Quantity: 100, GatePassNo: "GP-9",
	})
	require.NoError(t, err, "over-delivery is accepted, not rejected")
	require.Contains(t, result.Warning, "exceeds current 1st Dry balance of 40")

	// Balance goes negative in the rollup.
	require.Equal(t, int64(40), orders.rollups[7].Received)
	require.Equal(t, int64(100), orders.rollups[7].Delivered)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "op", CreateRequest{WorkOrderID: 7, StageID: 1, Type: 3, Quantity: 10})
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Create(ctx, "op", CreateRequest{WorkOrderID: 7, StageID: 1, Type: 1, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(ctx, "op", CreateRequest{WorkOrderID: 999, StageID: 1, Type: 1, Quantity: 10})
	require.ErrorIs(t, err, workorder.ErrNotFound)

	_, err = svc.Create(ctx, "op", CreateRequest{WorkOrderID: 7, StageID: 42, Type: 1, Quantity: 10})
	require.ErrorIs(t, err, stage.ErrNotFound)
}

func TestDeleteRefreshesRollup(t *testing.T) {
	svc, _, orders, notifier := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "op", CreateRequest{WorkOrderID: 7, StageID: 1, Type: 1, Quantity: 60})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "op", created.Transaction.ID))
	require.Equal(t, int64(0), orders.rollups[7].Received)
	require.Len(t, notifier.changed, 2)

	require.ErrorIs(t, svc.Delete(ctx, "op", created.Transaction.ID), ErrNotFound)
}

func TestTypeLabelDefaulting(t *testing.T) {
	require.Equal(t, "Receive", TypeReceive.Label())
	require.Equal(t, "Delivery", TypeDelivery.Label())
	require.Equal(t, "Unknown", TransactionType(3).Label())
	require.Equal(t, "Unknown", TransactionType(0).Label())
}

type memoryAudit struct {
	logs []shared.AuditLog
}

func (a *memoryAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestMutationsAreAudited(t *testing.T) {
	svc, _, _, _ := newTestService()
	audit := &memoryAudit{}
	svc.WithAudit(audit)
	ctx := context.Background()

	created, err := svc.Create(ctx, "operator1", CreateRequest{WorkOrderID: 7, StageID: 1, Type: 1, Quantity: 25})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "supervisor1", created.Transaction.ID))

	require.Len(t, audit.logs, 2)
	require.Equal(t, "washtx:create", audit.logs[0].Action)
	require.Equal(t, "operator1", audit.logs[0].Actor)
	require.Equal(t, int64(7), audit.logs[0].Meta["work_order_id"])
	require.Equal(t, "washtx:delete", audit.logs[1].Action)
	require.Equal(t, "supervisor1", audit.logs[1].Actor)
}
