package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/washtrack/washtrack/internal/shared"
)

type staticSource struct {
	perms []string
}

func (s staticSource) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	return s.perms, nil
}

func requestWithUser(userID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := &shared.Session{}
	sess.SetUser(userID)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestRequireAny(t *testing.T) {
	mw := Middleware{Source: staticSource{perms: []string{"report.view"}}}
	ok := false
	handler := mw.RequireAny(shared.PermReportView, shared.PermReportExport)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ok = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser("1"))
	require.True(t, ok)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAllDenied(t *testing.T) {
	mw := Middleware{Source: staticSource{perms: []string{"report.view"}}}
	handler := mw.RequireAll(shared.PermReportView, shared.PermReportExport)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser("1"))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAnonymousRejected(t *testing.T) {
	mw := Middleware{Source: staticSource{}}
	handler := mw.RequireAny(shared.PermReportView)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
