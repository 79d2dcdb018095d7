package workorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/washtrack/washtrack/internal/shared"
)

// Repository provides PostgreSQL backed persistence for work orders.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const workOrderColumns = `id, work_order_no, style_name, buyer, factory, line, fast_react_no, marks,
	order_quantity, cut_qty, tod, sewing_comp_date, wash_target_date,
	total_wash_received, total_wash_delivery, wash_balance, created_at, updated_at`

// Create inserts a new work order.
func (r *Repository) Create(ctx context.Context, input CreateRequest) (*WorkOrder, error) {
	query := `
		INSERT INTO work_orders (
			work_order_no, style_name, buyer, factory, line, fast_react_no, marks,
			order_quantity, cut_qty, tod, sewing_comp_date, wash_target_date,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW())
		RETURNING id, created_at, updated_at`

	var wo WorkOrder
	err := r.pool.QueryRow(ctx, query,
		input.WorkOrderNo,
		input.StyleName,
		input.Buyer,
		input.Factory,
		input.Line,
		input.FastReactNo,
		input.Marks,
		input.OrderQuantity,
		input.CutQty,
		nullableDate(input.TOD),
		nullableDate(input.SewingCompDate),
		nullableDate(input.WashTargetDate),
	).Scan(&wo.ID, &wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}

	wo.WorkOrderNo = input.WorkOrderNo
	wo.StyleName = input.StyleName
	wo.Buyer = input.Buyer
	wo.Factory = input.Factory
	wo.Line = input.Line
	wo.FastReactNo = input.FastReactNo
	wo.Marks = input.Marks
	wo.OrderQuantity = input.OrderQuantity
	wo.CutQty = input.CutQty
	wo.TOD = input.TOD
	wo.SewingCompDate = input.SewingCompDate
	wo.WashTargetDate = input.WashTargetDate
	return &wo, nil
}

// Get fetches a work order by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*WorkOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders WHERE id = $1`, workOrderColumns)
	wo, err := scanWorkOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wo, nil
}

// List returns work orders matching the filter plus the unpaginated total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]WorkOrder, int, error) {
	where := ""
	args := []any{}
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = `WHERE work_order_no ILIKE $1 OR style_name ILIKE $1 OR buyer ILIKE $1`
		args = append(args, "%"+s+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM work_orders %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM work_orders %s ORDER BY id DESC LIMIT %d OFFSET %d`,
		workOrderColumns, where, limit, filter.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *wo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAll returns every work order, used by the report join layer.
func (r *Repository) ListAll(ctx context.Context) ([]WorkOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders ORDER BY id`, workOrderColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *wo)
	}
	return orders, rows.Err()
}

// ListIDs returns all work order IDs, used by the rollup job.
func (r *Repository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM work_orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update applies non-nil fields from the request.
func (r *Repository) Update(ctx context.Context, id int64, input UpdateRequest) (*WorkOrder, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.StyleName != nil {
		add("style_name", *input.StyleName)
	}
	if input.Buyer != nil {
		add("buyer", *input.Buyer)
	}
	if input.Factory != nil {
		add("factory", *input.Factory)
	}
	if input.Line != nil {
		add("line", *input.Line)
	}
	if input.FastReactNo != nil {
		add("fast_react_no", *input.FastReactNo)
	}
	if input.Marks != nil {
		add("marks", *input.Marks)
	}
	if input.OrderQuantity != nil {
		add("order_quantity", *input.OrderQuantity)
	}
	if input.CutQty != nil {
		add("cut_qty", *input.CutQty)
	}
	if input.TOD != nil {
		add("tod", nullableDate(input.TOD))
	}
	if input.SewingCompDate != nil {
		add("sewing_comp_date", nullableDate(input.SewingCompDate))
	}
	if input.WashTargetDate != nil {
		add("wash_target_date", nullableDate(input.WashTargetDate))
	}

	query := fmt.Sprintf(`UPDATE work_orders SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), workOrderColumns)
	wo, err := scanWorkOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wo, nil
}

// Delete removes a work order.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateWashTotals writes the rolled up receive/delivery totals.
func (r *Repository) UpdateWashTotals(ctx context.Context, id int64, totals WashTotals) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE work_orders
		SET total_wash_received = $2, total_wash_delivery = $3, wash_balance = $4, updated_at = NOW()
		WHERE id = $1`,
		id, totals.Received, totals.Delivered, totals.Balance())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableDate(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkOrder(row rowScanner) (*WorkOrder, error) {
	var wo WorkOrder
	var tod, sewing, washTarget pgtype.Timestamptz
	err := row.Scan(
		&wo.ID, &wo.WorkOrderNo, &wo.StyleName, &wo.Buyer, &wo.Factory, &wo.Line,
		&wo.FastReactNo, &wo.Marks, &wo.OrderQuantity, &wo.CutQty,
		&tod, &sewing, &washTarget,
		&wo.TotalWashReceived, &wo.TotalWashDelivery, &wo.WashBalance,
		&wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tod.Valid {
		wo.TOD = &tod.Time
	}
	if sewing.Valid {
		wo.SewingCompDate = &sewing.Time
	}
	if washTarget.Valid {
		wo.WashTargetDate = &washTarget.Time
	}
	return &wo, nil
}
