package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
)

func TestSchemaHasTwentyOneColumns(t *testing.T) {
	schema := Schema()
	require.Len(t, schema, 21)
	require.Equal(t, "Transaction ID", schema[0].Label)
	require.Equal(t, "Quantity (pcs)", schema[11].Label)
	require.Equal(t, "Created At", schema[20].Label)

	var row Row
	require.Len(t, row.Values(), len(schema))
}

func TestBuildRowsJoinsWorkOrderFields(t *testing.T) {
	target := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	orders := []workorder.WorkOrder{
		{ID: 7, WorkOrderNo: "WO-007", StyleName: "Denim Slim", FastReactNo: "FR-9",
			Buyer: "H&M", Factory: "Unit 2", Line: "L-4", Marks: "rush order",
			WashTargetDate: &target},
	}
	txs := []washtx.Transaction{
		{ID: 101, WorkOrderID: 7, StageName: "1st Wash", Type: washtx.TypeReceive,
			Quantity: 120, TransactionDate: time.Date(2024, time.June, 1, 14, 30, 5, 0, time.UTC),
			BatchNo: "B-12", CreatedBy: "operator1",
			CreatedAt: time.Date(2024, time.June, 1, 14, 31, 0, 0, time.UTC)},
		{ID: 102, WorkOrderID: 999, StageName: "Final Wash", Type: washtx.TypeDelivery,
			Quantity: 50, TransactionDate: time.Date(2024, time.June, 2, 9, 0, 0, 0, time.UTC)},
	}

	rows := BuildRows(txs, orders)
	require.Len(t, rows, len(txs))

	require.Equal(t, "101", rows[0].TransactionID)
	require.Equal(t, "Receive", rows[0].Type)
	require.Equal(t, "WO-007", rows[0].WorkOrderNo)
	require.Equal(t, "FR-9", rows[0].FastReactNo)
	require.Equal(t, "10-Jun-2024", rows[0].WashTargetDate)
	require.Equal(t, "01-Jun-2024", rows[0].TransactionDate)
	require.Equal(t, "14:30:05", rows[0].TransactionTime)
	require.Equal(t, "B-12", rows[0].BatchNo)
	require.Equal(t, Placeholder, rows[0].GatePassNo)

	// Missing parent work order yields placeholders, never an error.
	require.Equal(t, "Delivery", rows[1].Type)
	require.Equal(t, Placeholder, rows[1].WorkOrderNo)
	require.Equal(t, Placeholder, rows[1].FastReactNo)
	require.Equal(t, Placeholder, rows[1].Buyer)
	require.Equal(t, "50", rows[1].Quantity)
}

func TestBuildRowsSanitizesFreeText(t *testing.T) {
	txs := []washtx.Transaction{
		{ID: 1, WorkOrderID: 1, StageName: "Unwash", Type: washtx.TypeReceive,
			Quantity: 10, Remarks: "keep dry\r\nhandle with care",
			TransactionDate: time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC)},
	}
	rows := BuildRows(txs, nil)
	require.Equal(t, "keep dry handle with care", rows[0].Remarks)
}

func TestBuildRowsLabelsUnknownTypes(t *testing.T) {
	txs := []washtx.Transaction{
		{ID: 1, Type: washtx.TransactionType(3), Quantity: 5},
		{ID: 2, Type: washtx.TransactionType(0), Quantity: 5},
	}
	rows := BuildRows(txs, nil)
	require.Equal(t, "Unknown", rows[0].Type)
	require.Equal(t, "Unknown", rows[1].Type)
}

func TestBuildRowsPreservesInputOrder(t *testing.T) {
	txs := []washtx.Transaction{
		{ID: 30, Type: washtx.TypeReceive},
		{ID: 10, Type: washtx.TypeReceive},
		{ID: 20, Type: washtx.TypeDelivery},
	}
	rows := BuildRows(txs, nil)
	require.Equal(t, []string{"30", "10", "20"}, []string{rows[0].TransactionID, rows[1].TransactionID, rows[2].TransactionID})
}
