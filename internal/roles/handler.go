package roles

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/washtrack/washtrack/internal/rbac"
	"github.com/washtrack/washtrack/internal/shared"
)

// Handler manages role administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	rbac      rbac.Middleware
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New(), rbac: rbacMW}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermAdminRoles))
		r.Get("/", h.list)
		r.Get("/permissions", h.permissions)
		r.Get("/{id}", h.show)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to list roles")
		return
	}
	if roles == nil {
		roles = []Role{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"roles": roles})
}

func (h *Handler) permissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to list permissions")
		return
	}
	if perms == nil {
		perms = []Permission{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"permissions": perms})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "role not found")
			return
		}
		h.logger.Error("get role", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load role")
		return
	}
	shared.RespondJSON(w, http.StatusOK, role)
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
	role, err := h.service.CreateRole(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateName):
			shared.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrUnknownPermission):
			shared.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("create role", slog.Any("error", err))
			shared.RespondError(w, http.StatusInternalServerError, "failed to create role")
		}
		return
	}
	shared.RespondJSON(w, http.StatusCreated, role)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "validation failed")
		return
	}
	role, err := h.service.UpdateRole(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			shared.RespondError(w, http.StatusNotFound, "role not found")
		case errors.Is(err, ErrUnknownPermission):
			shared.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("update role", slog.Any("error", err), slog.Int64("id", id))
			shared.RespondError(w, http.StatusInternalServerError, "failed to update role")
		}
		return
	}
	shared.RespondJSON(w, http.StatusOK, role)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "role not found")
			return
		}
		h.logger.Error("delete role", slog.Any("error", err), slog.Int64("id", id))
		shared.RespondError(w, http.StatusInternalServerError, "failed to delete role")
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}
