package report

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
)

// WorkOrderPort exposes the work order reads the report layer needs.
type WorkOrderPort interface {
	Get(ctx context.Context, id int64) (*workorder.WorkOrder, error)
	ListAll(ctx context.Context) ([]workorder.WorkOrder, error)
}

// TransactionPort exposes the transaction reads the report layer needs.
type TransactionPort interface {
	List(ctx context.Context, filter washtx.ListFilter) ([]washtx.Transaction, int, error)
	ListByWorkOrder(ctx context.Context, workOrderID int64) ([]washtx.Transaction, error)
}

// Service assembles export rows and wash-status aggregates, with cached
// wash-status reads.
type Service struct {
	workOrders   WorkOrderPort
	transactions TransactionPort
	cache        *Cache
}

// NewService builds a Service. cache may be nil.
func NewService(workOrders WorkOrderPort, transactions TransactionPort, cache *Cache) *Service {
	return &Service{workOrders: workOrders, transactions: transactions, cache: cache}
}

// TransactionRows loads the filtered transactions and the full work order
// list concurrently, then joins them into export rows.
func (s *Service) TransactionRows(ctx context.Context, filter washtx.ListFilter) ([]Row, error) {
	var (
		txs    []washtx.Transaction
		orders []workorder.WorkOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, _, err = s.transactions.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.workOrders.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildRows(txs, orders), nil
}

// WashStatus returns the cached aggregated wash position of a work order,
// computing it on a cache miss.
func (s *Service) WashStatus(ctx context.Context, workOrderID int64) (*WashStatus, error) {
	key, err := s.cache.BuildKey(ctx, "report", "wash-status", strconv.FormatInt(workOrderID, 10))
	if err != nil {
		return nil, err
	}
	var status WashStatus
	err = s.cache.FetchJSON(ctx, key, &status, func(ctx context.Context) (any, error) {
		return s.computeWashStatus(ctx, workOrderID)
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// WashTotalsChanged invalidates cached report data. It satisfies the
// transaction service's notifier contract.
func (s *Service) WashTotalsChanged(ctx context.Context, workOrderID int64) {
	_ = s.cache.Bump(ctx)
}

func (s *Service) computeWashStatus(ctx context.Context, workOrderID int64) (*WashStatus, error) {
	wo, err := s.workOrders.Get(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactions.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	status := AggregateWashStatus(*wo, txs)
	return &status, nil
}
