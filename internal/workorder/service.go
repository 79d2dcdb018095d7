package workorder

import (
	"context"
	"strings"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateRequest) (*WorkOrder, error)
	Get(ctx context.Context, id int64) (*WorkOrder, error)
	List(ctx context.Context, filter ListFilter) ([]WorkOrder, int, error)
	ListAll(ctx context.Context) ([]WorkOrder, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Update(ctx context.Context, id int64, input UpdateRequest) (*WorkOrder, error)
	Delete(ctx context.Context, id int64) error
	UpdateWashTotals(ctx context.Context, id int64, totals WashTotals) error
}

// Service coordinates work order operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers a new work order.
func (s *Service) Create(ctx context.Context, input CreateRequest) (*WorkOrder, error) {
	input.WorkOrderNo = strings.TrimSpace(input.WorkOrderNo)
	input.StyleName = strings.TrimSpace(input.StyleName)
	return s.repo.Create(ctx, input)
}

// Get fetches a single work order.
func (s *Service) Get(ctx context.Context, id int64) (*WorkOrder, error) {
	return s.repo.Get(ctx, id)
}

// List returns a filtered page of work orders.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]WorkOrder, int, error) {
	return s.repo.List(ctx, filter)
}

// ListAll returns the full work order snapshot used for report joins.
func (s *Service) ListAll(ctx context.Context) ([]WorkOrder, error) {
	return s.repo.ListAll(ctx)
}

// Update modifies a work order.
func (s *Service) Update(ctx context.Context, id int64, input UpdateRequest) (*WorkOrder, error) {
	return s.repo.Update(ctx, id, input)
}

// Delete removes a work order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// RollupWashTotals recomputes and persists wash totals for one work order.
// The totals are computed by the caller (report aggregator or rollup job)
// so the repository stays free of transaction knowledge.
func (s *Service) RollupWashTotals(ctx context.Context, id int64, totals WashTotals) error {
	return s.repo.UpdateWashTotals(ctx, id, totals)
}

// ListIDs exposes work order IDs for batch jobs.
func (s *Service) ListIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ListIDs(ctx)
}
