package report

import (
	"encoding/csv"
	"errors"
	"io"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// ErrNoData signals that an export was requested against an empty row set.
// An empty file would look like a silent success to the person downloading
// it, so the export refuses instead.
var ErrNoData = errors.New("no data to export")

// WriteCSV renders rows as UTF-8 CSV with a leading byte-order mark so
// spreadsheet applications detect the encoding. The header comes from the
// fixed schema; each row contributes exactly one record.
func WriteCSV(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	bomWriter := unicode.UTF8BOM.NewEncoder().Writer(w)
	cw := csv.NewWriter(bomWriter)

	schema := Schema()
	header := make([]string, len(schema))
	for i, col := range schema {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds the timestamped export file name. The layout produces
// only filesystem-safe characters.
func Filename(now time.Time) string {
	return "transactions_" + now.Format("02-Jan-2006_15-04-05") + ".csv"
}
