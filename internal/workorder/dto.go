package workorder

import (
	"time"

	"github.com/washtrack/washtrack/internal/shared"
)

// CreateRequest represents a request to create a work order.
type CreateRequest struct {
	WorkOrderNo string `json:"work_order_no" validate:"required,max=100"`
	StyleName   string `json:"style_name" validate:"required,max=200"`
	Buyer       string `json:"buyer" validate:"omitempty,max=200"`
	Factory     string `json:"factory" validate:"omitempty,max=200"`
	Line        string `json:"line" validate:"omitempty,max=50"`
	FastReactNo string `json:"fast_react_no" validate:"omitempty,max=100"`
	Marks       string `json:"marks" validate:"omitempty,max=255"`

	OrderQuantity int64 `json:"order_quantity" validate:"gte=0"`
	CutQty        int64 `json:"cut_qty" validate:"gte=0"`

	TOD            *time.Time `json:"tod,omitempty"`
	SewingCompDate *time.Time `json:"sewing_comp_date,omitempty"`
	WashTargetDate *time.Time `json:"wash_target_date,omitempty"`
}

// UpdateRequest represents a request to update a work order. Nil fields
// are left untouched.
type UpdateRequest struct {
	StyleName   *string `json:"style_name,omitempty" validate:"omitempty,max=200"`
	Buyer       *string `json:"buyer,omitempty" validate:"omitempty,max=200"`
	Factory     *string `json:"factory,omitempty" validate:"omitempty,max=200"`
	Line        *string `json:"line,omitempty" validate:"omitempty,max=50"`
	FastReactNo *string `json:"fast_react_no,omitempty" validate:"omitempty,max=100"`
	Marks       *string `json:"marks,omitempty" validate:"omitempty,max=255"`

	OrderQuantity *int64 `json:"order_quantity,omitempty" validate:"omitempty,gte=0"`
	CutQty        *int64 `json:"cut_qty,omitempty" validate:"omitempty,gte=0"`

	TOD            *time.Time `json:"tod,omitempty"`
	SewingCompDate *time.Time `json:"sewing_comp_date,omitempty"`
	WashTargetDate *time.Time `json:"wash_target_date,omitempty"`
}

// ListResponse is the paginated listing payload.
type ListResponse struct {
	WorkOrders []WorkOrder `json:"work_orders"`
	shared.Pagination
}
