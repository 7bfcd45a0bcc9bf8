package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/content/posts"
	"github.com/tourhub/tourhub/internal/listings/accommodations"
	"github.com/tourhub/tourhub/internal/listings/attractions"
	"github.com/tourhub/tourhub/internal/listings/destinations"
	"github.com/tourhub/tourhub/internal/observability"
	"github.com/tourhub/tourhub/internal/platform/httpx"
	"github.com/tourhub/tourhub/internal/shared"
	"github.com/tourhub/tourhub/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger     *slog.Logger
	Config     *Config
	Services   *Services
	Resolver   authz.Resolver
	JobHandler *jobs.Handler
	Metrics    *observability.Metrics
}

// meResponse describes the calling actor and the admin menu it may see.
type meResponse struct {
	ID          string             `json:"id"`
	Role        authz.Role         `json:"role"`
	Permissions []authz.Permission `json:"permissions"`
	Menu        []authz.MenuItem   `json:"menu"`
}

// NewRouter constructs the chi.Router with tourhub defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Resolver: params.Resolver,
		Metrics:  params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", me)

		if svc := params.Services; svc != nil {
			r.Route("/destinations", destinations.NewHandler(params.Logger, svc.Destinations).MountRoutes)
			r.Route("/attractions", attractions.NewHandler(params.Logger, svc.Attractions).MountRoutes)
			r.Route("/accommodations", accommodations.NewHandler(params.Logger, svc.Accommodations).MountRoutes)
			r.Route("/posts", posts.NewHandler(params.Logger, svc.Posts).MountRoutes)
		}

		if params.JobHandler != nil {
			guard := authz.Middleware{Logger: params.Logger}
			r.With(guard.RequireAny(
				authz.PermDestinationHardDelete, authz.PermAttractionHardDelete,
				authz.PermAccommodationHardDelete, authz.PermPostHardDelete,
			)).Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}

func me(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromContext(r.Context())
	if !actor.Identified() {
		httpx.RespondError(w, shared.Forbidden("actor is required"))
		return
	}
	httpx.WriteResult(w, shared.OK(meResponse{
		ID:          actor.ID.String(),
		Role:        actor.Role,
		Permissions: actor.Permissions.Slice(),
		Menu:        authz.FilterMenu(actor, authz.AdminMenu()),
	}), 0)
}
