package posts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/crud/crudhttp"
	"github.com/tourhub/tourhub/internal/platform/httpx"
)

// Handler serves /posts.
type Handler struct {
	*crudhttp.Handler[*Post, CreateInput, UpdateInput, SearchInput]
	service *Service
}

// NewHandler constructs the post HTTP handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	return &Handler{
		Handler: crudhttp.NewHandler[*Post, CreateInput, UpdateInput, SearchInput](logger, svc),
		service: svc,
	}
}

// MountRoutes registers the standard routes and the visibility route shared
// with accommodations.
func (h *Handler) MountRoutes(r chi.Router) {
	h.Handler.MountRoutes(r)
	r.Put("/{id}/visibility", h.updateVisibility)
}

func (h *Handler) updateVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := crudhttp.IDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, h.service.UpdateVisibility(r.Context(), authz.ActorFromContext(r.Context()), id, VisibilityInput{}), 0)
}
