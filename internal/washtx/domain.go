package washtx

import (
	"errors"
	"time"
)

// TransactionType enumerates wash transaction kinds. The enumeration is
// closed: 1 and 2 are the only valid values, anything else is labelled
// "Unknown" for display but never stored.
type TransactionType int16

const (
	// TypeReceive marks material arriving at a stage.
	TypeReceive TransactionType = 1
	// TypeDelivery marks material leaving a stage.
	TypeDelivery TransactionType = 2
)

// Valid reports whether the value is part of the closed enumeration.
func (t TransactionType) Valid() bool {
	return t == TypeReceive || t == TypeDelivery
}

// Label returns the display name, defaulting to "Unknown" for values
// outside the enumeration.
func (t TransactionType) Label() string {
	switch t {
	case TypeReceive:
		return "Receive"
	case TypeDelivery:
		return "Delivery"
	default:
		return "Unknown"
	}
}

// Transaction records one receive or delivery against a process stage.
type Transaction struct {
	ID          int64           `json:"id"`
	WorkOrderID int64           `json:"work_order_id"`
	StageID     int64           `json:"stage_id"`
	StageName   string          `json:"stage_name"`
	Type        TransactionType `json:"type"`
	Quantity    int64           `json:"quantity"`

	TransactionDate time.Time `json:"transaction_date"`

	BatchNo     string `json:"batch_no,omitempty"`
	GatePassNo  string `json:"gate_pass_no,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
	ReceivedBy  string `json:"received_by,omitempty"`
	DeliveredTo string `json:"delivered_to,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFilter narrows transaction listings.
type ListFilter struct {
	WorkOrderID *int64
	StageID     *int64
	Type        *TransactionType
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StageTotals carries the receive/delivery sums for one (work order, stage)
// pair, used for the insufficient-balance warning on delivery.
type StageTotals struct {
	Received  int64
	Delivered int64
}

// Balance returns received minus delivered, unclamped.
func (t StageTotals) Balance() int64 {
	return t.Received - t.Delivered
}

var (
	// ErrNotFound indicates the transaction does not exist.
	ErrNotFound = errors.New("washtx: not found")
	// ErrInvalidType indicates a type outside the closed enumeration.
	ErrInvalidType = errors.New("washtx: transaction type must be 1 (receive) or 2 (delivery)")
	// ErrInvalidQuantity indicates a non-positive quantity.
	ErrInvalidQuantity = errors.New("washtx: quantity must be positive")
)
