package washtx

import (
	"time"

	"github.com/washtrack/washtrack/internal/shared"
)

// CreateRequest represents a request to record a wash transaction.
type CreateRequest struct {
	WorkOrderID     int64      `json:"work_order_id" validate:"required,gt=0"`
	StageID         int64      `json:"stage_id" validate:"required,gt=0"`
	Type            int16      `json:"type" validate:"required,oneof=1 2"`
	Quantity        int64      `json:"quantity" validate:"required,gt=0"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`

	BatchNo     string `json:"batch_no,omitempty" validate:"omitempty,max=100"`
	GatePassNo  string `json:"gate_pass_no,omitempty" validate:"omitempty,max=100"`
	Remarks     string `json:"remarks,omitempty" validate:"omitempty,max=255"`
	ReceivedBy  string `json:"received_by,omitempty" validate:"omitempty,max=200"`
	DeliveredTo string `json:"delivered_to,omitempty" validate:"omitempty,max=200"`
}

// CreateResult wraps the stored transaction with an optional warning.
// Insufficient balance on delivery is a warning, never a rejection: the
// backend accepts over-delivery and the balance goes negative.
type CreateResult struct {
	Transaction Transaction `json:"transaction"`
	Warning     string      `json:"warning,omitempty"`
}

// ListResponse is the paginated listing payload.
type ListResponse struct {
	Transactions []Transaction `json:"transactions"`
	shared.Pagination
}
