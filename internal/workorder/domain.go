package workorder

import (
	"errors"
	"time"
)

// WorkOrder is a production batch tracked through the washing pipeline.
type WorkOrder struct {
	ID          int64  `json:"id"`
	WorkOrderNo string `json:"work_order_no"`
	StyleName   string `json:"style_name"`
	Buyer       string `json:"buyer"`
	Factory     string `json:"factory"`
	Line        string `json:"line"`
	FastReactNo string `json:"fast_react_no"`
	Marks       string `json:"marks"`

	OrderQuantity int64 `json:"order_quantity"`
	CutQty        int64 `json:"cut_qty"`

	TOD            *time.Time `json:"tod,omitempty"`
	SewingCompDate *time.Time `json:"sewing_comp_date,omitempty"`
	WashTargetDate *time.Time `json:"wash_target_date,omitempty"`

	// Rolled up from wash transactions; recomputed on write and by the
	// nightly rollup job.
	TotalWashReceived int64 `json:"total_wash_received"`
	TotalWashDelivery int64 `json:"total_wash_delivery"`
	WashBalance       int64 `json:"wash_balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter narrows work order listings.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// WashTotals carries the aggregate receive/delivery sums for a work order.
type WashTotals struct {
	Received  int64
	Delivered int64
}

// Balance returns received minus delivered. Not clamped; over-delivery
// shows as a negative balance.
func (t WashTotals) Balance() int64 {
	return t.Received - t.Delivered
}

var (
	// ErrNotFound indicates the work order does not exist.
	ErrNotFound = errors.New("workorder: not found")
	// ErrDuplicateNumber indicates the work order number is taken.
	ErrDuplicateNumber = errors.New("workorder: work order number already exists")
)
