package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/washtrack/washtrack/internal/auth"
	"github.com/washtrack/washtrack/internal/observability"
	"github.com/washtrack/washtrack/internal/report"
	"github.com/washtrack/washtrack/internal/roles"
	"github.com/washtrack/washtrack/internal/shared"
	"github.com/washtrack/washtrack/internal/stage"
	"github.com/washtrack/washtrack/internal/users"
	"github.com/washtrack/washtrack/internal/washtx"
	"github.com/washtrack/washtrack/internal/workorder"
	"github.com/washtrack/washtrack/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics

	AuthHandler      *auth.Handler
	WorkOrderHandler *workorder.Handler
	WashTxHandler    *washtx.Handler
	StageHandler     *stage.Handler
	ReportHandler    *report.Handler
	UsersHandler     *users.Handler
	RolesHandler     *roles.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with Washtrack defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		if params.WorkOrderHandler != nil {
			r.Route("/workorders", params.WorkOrderHandler.MountRoutes)
		}
		if params.WashTxHandler != nil {
			r.Route("/transactions", params.WashTxHandler.MountRoutes)
		}
		if params.StageHandler != nil {
			r.Route("/stages", params.StageHandler.MountRoutes)
		}
		if params.ReportHandler != nil {
			r.Route("/reports", params.ReportHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.RolesHandler != nil {
			r.Route("/roles", params.RolesHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	return r
}
