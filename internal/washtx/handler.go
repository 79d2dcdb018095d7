package washtx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/washtrack/washtrack/internal/rbac"
	"github.com/washtrack/washtrack/internal/shared"
	"github.com/washtrack/washtrack/internal/stage"
	"github.com/washtrack/washtrack/internal/workorder"
)

// Handler manages wash transaction HTTP endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	rbac      rbac.Middleware
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		rbac:      rbacMW,
	}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermWashTxView))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermWashTxCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermWashTxDelete))
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := 50
	filter := ListFilter{Limit: perPage, Offset: (page - 1) * perPage}

	q := r.URL.Query()
	if raw := q.Get("work_order_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "invalid work_order_id")
			return
		}
		filter.WorkOrderID = &id
	}
	if raw := q.Get("stage_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "invalid stage_id")
			return
		}
		filter.StageID = &id
	}
	if raw := q.Get("type"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 16)
		if err != nil {
			shared.RespondError(w, http.StatusBadRequest, "invalid type")
			return
		}
		t := TransactionType(n)
		filter.Type = &t
	}
	if raw := q.Get("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &t
		}
	}
	if raw := q.Get("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.To = &end
		}
	}

	txs, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if txs == nil {
		txs = []Transaction{}
	}
	shared.RespondJSON(w, http.StatusOK, ListResponse{
		Transactions: txs,
		Pagination:   shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	tx, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error("get transaction", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	shared.RespondJSON(w, http.StatusOK, tx)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		shared.RespondFieldErrors(w, fields)
		return
	}

	actor := ""
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		actor = sess.Get("username")
	}

	result, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidType) || errors.Is(err, ErrInvalidQuantity):
			shared.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, workorder.ErrNotFound):
			shared.RespondError(w, http.StatusUnprocessableEntity, "work order not found")
		case errors.Is(err, stage.ErrNotFound):
			shared.RespondError(w, http.StatusUnprocessableEntity, "process stage not found")
		default:
			h.logger.Error("create transaction", slog.Any("error", err))
			shared.RespondError(w, http.StatusInternalServerError, "failed to create transaction")
		}
		return
	}
	shared.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	actor := ""
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		actor = sess.Get("username")
	}
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error("delete transaction", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}
