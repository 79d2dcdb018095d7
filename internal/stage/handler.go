package stage

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/washtrack/washtrack/internal/rbac"
	"github.com/washtrack/washtrack/internal/shared"
)

// Handler serves the process stage reference list.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbacMW}
}

// MountRoutes registers routes on the router. Stages are reference data:
// anyone who can see work orders, transactions, or reports can read them.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermWorkOrderView, shared.PermWashTxView, shared.PermReportView))
		r.Get("/", h.list)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	stages, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list stages", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to list stages")
		return
	}
	if stages == nil {
		stages = []Stage{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"stages": stages})
}
