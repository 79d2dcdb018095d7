package washtx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for wash transactions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const txColumns = `t.id, t.work_order_id, t.stage_id, s.name, t.tx_type, t.quantity,
	t.transaction_date, t.batch_no, t.gate_pass_no, t.remarks, t.received_by,
	t.delivered_to, t.created_by, t.created_at`

const txFrom = `FROM wash_transactions t JOIN process_stages s ON s.id = t.stage_id`

// Insert stores a new transaction and returns it with the stage name set.
func (r *Repository) Insert(ctx context.Context, tx Transaction) (*Transaction, error) {
	query := `
		INSERT INTO wash_transactions (
			work_order_id, stage_id, tx_type, quantity, transaction_date,
			batch_no, gate_pass_no, remarks, received_by, delivered_to,
			created_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		tx.WorkOrderID, tx.StageID, tx.Type, tx.Quantity, tx.TransactionDate,
		tx.BatchNo, tx.GatePassNo, tx.Remarks, tx.ReceivedBy, tx.DeliveredTo,
		tx.CreatedBy,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Get fetches one transaction by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Transaction, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE t.id = $1`, txColumns, txFrom)
	tx, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

// List returns transactions matching the filter plus the unpaginated total.
// Rows come back in insertion order (id ascending) so report output order
// is deterministic.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Transaction, int, error) {
	var conds []string
	var args []any
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.WorkOrderID != nil {
		add("t.work_order_id = $%d", *filter.WorkOrderID)
	}
	if filter.StageID != nil {
		add("t.stage_id = $%d", *filter.StageID)
	}
	if filter.Type != nil {
		add("t.tx_type = $%d", *filter.Type)
	}
	if filter.From != nil {
		add("t.transaction_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("t.transaction_date <= $%d", *filter.To)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) %s %s`, txFrom, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY t.id`, txColumns, txFrom, where)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// ListByWorkOrder returns every transaction for one work order in
// insertion order.
func (r *Repository) ListByWorkOrder(ctx context.Context, workOrderID int64) ([]Transaction, error) {
	id := workOrderID
	txs, _, err := r.List(ctx, ListFilter{WorkOrderID: &id})
	return txs, err
}

// Delete removes a transaction and returns it so callers can trigger
// rollups for the affected work order.
func (r *Repository) Delete(ctx context.Context, id int64) (*Transaction, error) {
	tx, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM wash_transactions WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return tx, nil
}

// StageTotals sums receive/delivery quantities for one (work order, stage).
func (r *Repository) StageTotals(ctx context.Context, workOrderID, stageID int64) (StageTotals, error) {
	var totals StageTotals
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE tx_type = 1), 0),
			COALESCE(SUM(quantity) FILTER (WHERE tx_type = 2), 0)
		FROM wash_transactions
		WHERE work_order_id = $1 AND stage_id = $2`,
		workOrderID, stageID,
	).Scan(&totals.Received, &totals.Delivered)
	return totals, err
}

// WorkOrderTotals sums receive/delivery quantities across all stages.
func (r *Repository) WorkOrderTotals(ctx context.Context, workOrderID int64) (StageTotals, error) {
	var totals StageTotals
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE tx_type = 1), 0),
			COALESCE(SUM(quantity) FILTER (WHERE tx_type = 2), 0)
		FROM wash_transactions
		WHERE work_order_id = $1`,
		workOrderID,
	).Scan(&totals.Received, &totals.Delivered)
	return totals, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var tx Transaction
	var batchNo, gatePassNo, remarks, receivedBy, deliveredTo *string
	var txDate time.Time
	err := row.Scan(
		&tx.ID, &tx.WorkOrderID, &tx.StageID, &tx.StageName, &tx.Type, &tx.Quantity,
		&txDate, &batchNo, &gatePassNo, &remarks, &receivedBy, &deliveredTo,
		&tx.CreatedBy, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.TransactionDate = txDate
	if batchNo != nil {
		tx.BatchNo = *batchNo
	}
	if gatePassNo != nil {
		tx.GatePassNo = *gatePassNo
	}
	if remarks != nil {
		tx.Remarks = *remarks
	}
	if receivedBy != nil {
		tx.ReceivedBy = *receivedBy
	}
	if deliveredTo != nil {
		tx.DeliveredTo = *deliveredTo
	}
	return &tx, nil
}
