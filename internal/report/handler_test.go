package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/washtrack/washtrack/internal/rbac"
	"github.com/washtrack/washtrack/internal/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type allowAll struct{}

func (allowAll) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	return []string{
		shared.PermReportView,
		shared.PermReportExport,
	}, nil
}

func authedRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	sess := &shared.Session{}
	sess.SetUser("1")
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func testRouter(t *testing.T) (*chi.Mux, *fakeTransactions) {
	t.Helper()
	svc, _, txs := testService(t)
	handler := NewHandler(discardLogger(), svc, nil, rbac.Middleware{Source: allowAll{}})
	handler.WithNow(func() time.Time {
		return time.Date(2024, time.July, 4, 15, 42, 7, 0, time.UTC)
	})
	r := chi.NewRouter()
	r.Route("/reports", handler.MountRoutes)
	return r, txs
}

func TestTransactionsEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/reports/transactions"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Columns []Column `json:"columns"`
		Rows    []Row    `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Columns, 21)
	require.Len(t, body.Rows, 2)
	require.Equal(t, "WO-1", body.Rows[0].WorkOrderNo)
}

func TestExportEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/reports/transactions/export"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="transactions_04-Jul-2024_15-42-07.csv"`, rec.Header().Get("Content-Disposition"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}

func TestExportEndpointRejectsEmptyResult(t *testing.T) {
	router, txs := testRouter(t)
	txs.txs = nil

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/reports/transactions/export"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "no data to export")
}

func TestWashStatusEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/reports/wash-status/1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var status WashStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, int64(40), status.CurrentBalance)
	require.InDelta(t, 20.0, status.CompletionPercentage, 0.001)
}

func TestWashStatusEndpointNotFound(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/reports/wash-status/999"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
