package report

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/washtrack/washtrack/internal/observability"
	"github.com/washtrack/washtrack/internal/rbac"
	"github.com/washtrack/washtrack/internal/shared"
	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
)

// Handler serves report rows, wash-status aggregates, and the CSV export.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
	rbac    rbac.Middleware
	now     func() time.Time
}

// NewHandler creates a new handler. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics, rbacMW rbac.Middleware) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: metrics,
		rbac:    rbacMW,
		now:     time.Now,
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermReportView))
		r.Get("/transactions", h.transactions)
		r.Get("/wash-status/{workOrderID}", h.washStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermReportExport))
		r.Get("/transactions/export", h.export)
	})
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	rows, err := h.service.TransactionRows(r.Context(), filter)
	if err != nil {
		h.logger.Error("build report rows", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	if rows == nil {
		rows = []Row{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"columns": Schema(),
		"rows":    rows,
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	rows, err := h.service.TransactionRows(r.Context(), filter)
	if err != nil {
		h.metrics.CountExport("error")
		h.logger.Error("build export rows", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build export")
		return
	}
	if len(rows) == 0 {
		h.metrics.CountExport("empty")
		shared.RespondError(w, http.StatusUnprocessableEntity, ErrNoData.Error())
		return
	}

	filename := Filename(h.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := WriteCSV(w, rows); err != nil {
		h.metrics.CountExport("error")
		h.logger.Error("write csv", slog.Any("error", err))
		return
	}
	h.metrics.CountExport("ok")
}

func (h *Handler) washStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "workOrderID"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}
	status, err := h.service.WashStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, workorder.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "work order not found")
			return
		}
		h.logger.Error("wash status", slog.Any("error", err), slog.Int64("work_order_id", id))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load wash status")
		return
	}
	shared.RespondJSON(w, http.StatusOK, status)
}

func (h *Handler) parseFilter(w http.ResponseWriter, r *http.Request) (washtx.ListFilter, bool) {
	var filter washtx.ListFilter
	q := r.URL.Query()
	if raw := q.Get("work_order_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "invalid work_order_id")
			return filter, false
		}
		filter.WorkOrderID = &id
	}
	if raw := q.Get("stage_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "invalid stage_id")
			return filter, false
		}
		filter.StageID = &id
	}
	if raw := q.Get("type"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 16)
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "invalid type")
			return filter, false
		}
		t := washtx.TransactionType(n)
		filter.Type = &t
	}
	if raw := q.Get("from"); raw != "" {
		if t, ok := ParseDate(raw); ok {
			filter.From = &t
		}
	}
	if raw := q.Get("to"); raw != "" {
		if t, ok := ParseDate(raw); ok {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.To = &end
		}
	}
	return filter, true
}
