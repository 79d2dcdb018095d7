package report

import (
	"time"

	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
)

// StageBalance summarizes receive/delivery activity for one process stage
// of a work order.
type StageBalance struct {
	StageName        string     `json:"stage_name"`
	TotalReceived    int64      `json:"total_received"`
	TotalDelivered   int64      `json:"total_delivered"`
	CurrentBalance   int64      `json:"current_balance"`
	LastReceiveDate  *time.Time `json:"last_receive_date,omitempty"`
	LastDeliveryDate *time.Time `json:"last_delivery_date,omitempty"`
}

// WashStatus is the aggregated wash position of one work order.
type WashStatus struct {
	WorkOrderID          int64          `json:"work_order_id"`
	WorkOrderNo          string         `json:"work_order_no"`
	StyleName            string         `json:"style_name"`
	OrderQuantity        int64          `json:"order_quantity"`
	Stages               []StageBalance `json:"stages"`
	TotalReceived        int64          `json:"total_received"`
	TotalDelivered       int64          `json:"total_delivered"`
	CurrentBalance       int64          `json:"current_balance"`
	CompletionPercentage float64        `json:"completion_percentage"`
}

// AggregateWashStatus computes per-stage and overall balances for one work
// order from its transactions. Stages appear in the order they are first
// seen in the transaction list. Balances are not clamped: an over-delivery
// shows as a negative balance, and completion can exceed 100%.
func AggregateWashStatus(wo workorder.WorkOrder, txs []washtx.Transaction) WashStatus {
	status := WashStatus{
		WorkOrderID:   wo.ID,
		WorkOrderNo:   wo.WorkOrderNo,
		StyleName:     wo.StyleName,
		OrderQuantity: wo.OrderQuantity,
		Stages:        []StageBalance{},
	}

	position := make(map[string]int)
	for _, tx := range txs {
		if tx.WorkOrderID != wo.ID {
			continue
		}
		idx, ok := position[tx.StageName]
		if !ok {
			idx = len(status.Stages)
			position[tx.StageName] = idx
			status.Stages = append(status.Stages, StageBalance{StageName: tx.StageName})
		}
		stage := &status.Stages[idx]
		switch tx.Type {
		case washtx.TypeReceive:
			stage.TotalReceived += tx.Quantity
			status.TotalReceived += tx.Quantity
			stage.LastReceiveDate = laterOf(stage.LastReceiveDate, tx.TransactionDate)
		case washtx.TypeDelivery:
			stage.TotalDelivered += tx.Quantity
			status.TotalDelivered += tx.Quantity
			stage.LastDeliveryDate = laterOf(stage.LastDeliveryDate, tx.TransactionDate)
		}
	}

	for i := range status.Stages {
		status.Stages[i].CurrentBalance = status.Stages[i].TotalReceived - status.Stages[i].TotalDelivered
	}
	status.CurrentBalance = status.TotalReceived - status.TotalDelivered
	if wo.OrderQuantity > 0 {
		status.CompletionPercentage = float64(status.TotalDelivered) / float64(wo.OrderQuantity) * 100
	}
	return status
}

func laterOf(current *time.Time, candidate time.Time) *time.Time {
	if current == nil || candidate.After(*current) {
		t := candidate
		return &t
	}
	return current
}
