package report

import (
	"strconv"

	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
)

// Column pairs a stable key with its display label. The export schema is an
// explicit ordered list, never inferred from struct fields.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Schema returns the fixed export schema: 21 columns in display order.
func Schema() []Column {
	return []Column{
		{Key: "transaction_id", Label: "Transaction ID"},
		{Key: "type", Label: "Type"},
		{Key: "work_order_no", Label: "Work Order No"},
		{Key: "style_name", Label: "Style Name"},
		{Key: "fast_react_no", Label: "FastReact No"},
		{Key: "wash_target_date", Label: "Wash Target Date"},
		{Key: "marks", Label: "Marks"},
		{Key: "buyer", Label: "Buyer"},
		{Key: "factory", Label: "Factory"},
		{Key: "line", Label: "Line"},
		{Key: "process_stage", Label: "Process Stage"},
		{Key: "quantity", Label: "Quantity (pcs)"},
		{Key: "batch_no", Label: "Batch No"},
		{Key: "gate_pass_no", Label: "Gate Pass No"},
		{Key: "remarks", Label: "Remarks"},
		{Key: "received_by", Label: "Received By"},
		{Key: "delivered_to", Label: "Delivered To"},
		{Key: "transaction_date", Label: "Transaction Date"},
		{Key: "transaction_time", Label: "Transaction Time"},
		{Key: "created_by", Label: "Created By"},
		{Key: "created_at", Label: "Created At"},
	}
}

// Row is one flattened export row. Every field is always populated, with
// the placeholder standing in for missing data, so the renderer never has
// to probe for absent values.
type Row struct {
	TransactionID   string `json:"transaction_id"`
	Type            string `json:"type"`
	WorkOrderNo     string `json:"work_order_no"`
	StyleName       string `json:"style_name"`
	FastReactNo     string `json:"fast_react_no"`
	WashTargetDate  string `json:"wash_target_date"`
	Marks           string `json:"marks"`
	Buyer           string `json:"buyer"`
	Factory         string `json:"factory"`
	Line            string `json:"line"`
	ProcessStage    string `json:"process_stage"`
	Quantity        string `json:"quantity"`
	BatchNo         string `json:"batch_no"`
	GatePassNo      string `json:"gate_pass_no"`
	Remarks         string `json:"remarks"`
	ReceivedBy      string `json:"received_by"`
	DeliveredTo     string `json:"delivered_to"`
	TransactionDate string `json:"transaction_date"`
	TransactionTime string `json:"transaction_time"`
	CreatedBy       string `json:"created_by"`
	CreatedAt       string `json:"created_at"`
}

// Values returns the row's cells in schema order.
func (r Row) Values() []string {
	return []string{
		r.TransactionID,
		r.Type,
		r.WorkOrderNo,
		r.StyleName,
		r.FastReactNo,
		r.WashTargetDate,
		r.Marks,
		r.Buyer,
		r.Factory,
		r.Line,
		r.ProcessStage,
		r.Quantity,
		r.BatchNo,
		r.GatePassNo,
		r.Remarks,
		r.ReceivedBy,
		r.DeliveredTo,
		r.TransactionDate,
		r.TransactionTime,
		r.CreatedBy,
		r.CreatedAt,
	}
}

// BuildRows joins each transaction with its parent work order and flattens
// the pair into an export row. A transaction whose work order is missing
// still yields a row, with placeholders in the work-order columns. Output
// order matches input order.
func BuildRows(txs []washtx.Transaction, orders []workorder.WorkOrder) []Row {
	index := make(map[int64]workorder.WorkOrder, len(orders))
	for _, wo := range orders {
		index[wo.ID] = wo
	}

	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		row := Row{
			TransactionID:   strconv.FormatInt(tx.ID, 10),
			Type:            tx.Type.Label(),
			WorkOrderNo:     Placeholder,
			StyleName:       Placeholder,
			FastReactNo:     Placeholder,
			WashTargetDate:  Placeholder,
			Marks:           Placeholder,
			Buyer:           Placeholder,
			Factory:         Placeholder,
			Line:            Placeholder,
			ProcessStage:    SanitizeText(tx.StageName),
			Quantity:        strconv.FormatInt(tx.Quantity, 10),
			BatchNo:         SanitizeText(tx.BatchNo),
			GatePassNo:      SanitizeText(tx.GatePassNo),
			Remarks:         SanitizeText(tx.Remarks),
			ReceivedBy:      SanitizeText(tx.ReceivedBy),
			DeliveredTo:     SanitizeText(tx.DeliveredTo),
			TransactionDate: FormatDate(tx.TransactionDate, DateLayout),
			TransactionTime: FormatDate(tx.TransactionDate, TimeLayout),
			CreatedBy:       SanitizeText(tx.CreatedBy),
			CreatedAt:       FormatDate(tx.CreatedAt, DateTimeLayout),
		}
		if wo, ok := index[tx.WorkOrderID]; ok {
			row.WorkOrderNo = SanitizeText(wo.WorkOrderNo)
			row.StyleName = SanitizeText(wo.StyleName)
			row.FastReactNo = SanitizeText(wo.FastReactNo)
			row.WashTargetDate = FormatOptionalDate(wo.WashTargetDate, DateLayout)
			row.Marks = SanitizeText(wo.Marks)
			row.Buyer = SanitizeText(wo.Buyer)
			row.Factory = SanitizeText(wo.Factory)
			row.Line = SanitizeText(wo.Line)
		}
		rows = append(rows, row)
	}
	return rows
}
