package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteCSVRejectsEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil)
	require.ErrorIs(t, err, ErrNoData)
	require.Zero(t, buf.Len())
}

func TestWriteCSVStartsWithBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Row{{TransactionID: "1"}}))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}

func TestWriteCSVColumnCountInvariant(t *testing.T) {
	rows := []Row{
		{TransactionID: "1", Type: "Receive", Marks: "a,b", Remarks: `says "ok"`},
		{TransactionID: "2", Type: "Delivery"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	content := strings.TrimPrefix(buf.String(), "\ufeff")
	reader := csv.NewReader(strings.NewReader(content))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		require.Len(t, record, 21)
	}
	require.Equal(t, "Transaction ID", records[0][0])
	require.Equal(t, "a,b", records[1][6])
	require.Equal(t, `says "ok"`, records[1][14])
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.July, 4, 15, 42, 7, 0, time.UTC)
	name := Filename(now)
	require.Equal(t, "transactions_04-Jul-2024_15-42-07.csv", name)
	require.NotContains(t, name, " ")
	require.NotContains(t, name, ":")
}
