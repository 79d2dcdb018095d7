package washtx

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/washtrack/washtrack/internal/shared"
	"github.com/washtrack/washtrack/internal/stage"
	"github.com/washtrack/washtrack/internal/workorder"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	Insert(ctx context.Context, tx Transaction) (*Transaction, error)
	Get(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, int, error)
	ListByWorkOrder(ctx context.Context, workOrderID int64) ([]Transaction, error)
	Delete(ctx context.Context, id int64) (*Transaction, error)
	StageTotals(ctx context.Context, workOrderID, stageID int64) (StageTotals, error)
	WorkOrderTotals(ctx context.Context, workOrderID int64) (StageTotals, error)
}

// WorkOrderPort exposes the work order lookups and rollup write.
type WorkOrderPort interface {
	Get(ctx context.Context, id int64) (*workorder.WorkOrder, error)
	RollupWashTotals(ctx context.Context, id int64, totals workorder.WashTotals) error
}

// StagePort resolves process stages.
type StagePort interface {
	Get(ctx context.Context, id int64) (*stage.Stage, error)
}

// Notifier is told whenever wash totals for a work order change, so
// dependent caches and background jobs can react.
type Notifier interface {
	WashTotalsChanged(ctx context.Context, workOrderID int64)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates wash transaction operations.
type Service struct {
	repo       RepositoryPort
	workOrders WorkOrderPort
	stages     StagePort
	notifier   Notifier
	audit      AuditPort
	logger     *slog.Logger
	now        func() time.Time
}

// NewService builds a Service. notifier may be nil.
func NewService(repo RepositoryPort, workOrders WorkOrderPort, stages StagePort, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		workOrders: workOrders,
		stages:     stages,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// WithAudit attaches an audit recorder. Recording failures are logged,
// never surfaced to the caller.
func (s *Service) WithAudit(audit AuditPort) *Service {
	s.audit = audit
	return s
}

// Create records a receive or delivery transaction. A delivery that
// exceeds the current stage balance is accepted and flagged with a
// warning; the balance is allowed to go negative.
func (s *Service) Create(ctx context.Context, actor string, req CreateRequest) (*CreateResult, error) {
	txType := TransactionType(req.Type)
	if !txType.Valid() {
		return nil, ErrInvalidType
	}
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.workOrders.Get(ctx, req.WorkOrderID); err != nil {
		return nil, fmt.Errorf("washtx: resolve work order %d: %w", req.WorkOrderID, err)
	}
	st, err := s.stages.Get(ctx, req.StageID)
	if err != nil {
		return nil, fmt.Errorf("washtx: resolve stage %d: %w", req.StageID, err)
	}

	warning := ""
	if txType == TypeDelivery {
		totals, err := s.repo.StageTotals(ctx, req.WorkOrderID, req.StageID)
		if err != nil {
			return nil, err
		}
		if req.Quantity > totals.Balance() {
			warning = fmt.Sprintf("delivery of %d exceeds current %s balance of %d", req.Quantity, st.Name, totals.Balance())
		}
	}

	txDate := s.now()
	if req.TransactionDate != nil {
		txDate = *req.TransactionDate
	}

	tx := Transaction{
		WorkOrderID:     req.WorkOrderID,
		StageID:         req.StageID,
		StageName:       st.Name,
		Type:            txType,
		Quantity:        req.Quantity,
		TransactionDate: txDate,
		BatchNo:         req.BatchNo,
		GatePassNo:      req.GatePassNo,
		Remarks:         req.Remarks,
		ReceivedBy:      req.ReceivedBy,
		DeliveredTo:     req.DeliveredTo,
		CreatedBy:       actor,
	}
	stored, err := s.repo.Insert(ctx, tx)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "washtx:create", stored.ID, map[string]any{
		"work_order_id": stored.WorkOrderID,
		"stage_id":      stored.StageID,
		"type":          stored.Type.Label(),
		"quantity":      stored.Quantity,
	})
	s.refreshTotals(ctx, req.WorkOrderID)
	return &CreateResult{Transaction: *stored, Warning: warning}, nil
}

// Get fetches a single transaction.
func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered page of transactions.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, int, error) {
	return s.repo.List(ctx, filter)
}

// ListByWorkOrder returns all transactions for one work order.
func (s *Service) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]Transaction, error) {
	return s.repo.ListByWorkOrder(ctx, workOrderID)
}

// Delete removes a transaction and refreshes the affected rollup.
func (s *Service) Delete(ctx context.Context, actor string, id int64) error {
	tx, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "washtx:delete", id, map[string]any{
		"work_order_id": tx.WorkOrderID,
		"stage_id":      tx.StageID,
		"quantity":      tx.Quantity,
	})
	s.refreshTotals(ctx, tx.WorkOrderID)
	return nil
}

// WorkOrderTotals exposes aggregate sums for the rollup job.
func (s *Service) WorkOrderTotals(ctx context.Context, workOrderID int64) (StageTotals, error) {
	return s.repo.WorkOrderTotals(ctx, workOrderID)
}

func (s *Service) recordAudit(ctx context.Context, actor, action string, txID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   "wash_transaction",
		EntityID: strconv.FormatInt(txID, 10),
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit", slog.String("action", action), slog.Any("error", err))
	}
}

func (s *Service) refreshTotals(ctx context.Context, workOrderID int64) {
	totals, err := s.repo.WorkOrderTotals(ctx, workOrderID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("refresh wash totals", slog.Int64("work_order_id", workOrderID), slog.Any("error", err))
		}
		return
	}
	err = s.workOrders.RollupWashTotals(ctx, workOrderID, workorder.WashTotals{
		Received:  totals.Received,
		Delivered: totals.Delivered,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("rollup wash totals", slog.Int64("work_order_id", workOrderID), slog.Any("error", err))
	}
	if s.notifier != nil {
		s.notifier.WashTotalsChanged(ctx, workOrderID)
	}
}
