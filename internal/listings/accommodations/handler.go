package accommodations

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/crud/crudhttp"
	"github.com/tourhub/tourhub/internal/platform/httpx"
)

// Handler serves /accommodations: the standard routes plus moderation.
type Handler struct {
	*crudhttp.Handler[*Accommodation, CreateInput, UpdateInput, SearchInput]
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the accommodation HTTP handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		Handler: crudhttp.NewHandler[*Accommodation, CreateInput, UpdateInput, SearchInput](logger, svc),
		logger:  logger,
		service: svc,
	}
}

// MountRoutes registers the standard and moderation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	h.Handler.MountRoutes(r)
	r.Put("/{id}/visibility", h.updateVisibility)
	r.Put("/{id}/status", h.updateStatus)
}

func (h *Handler) updateVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := crudhttp.IDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var input VisibilityInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.logger.Debug("decode visibility", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, h.service.UpdateVisibility(r.Context(), authz.ActorFromContext(r.Context()), id, input), 0)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := crudhttp.IDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var input StatusInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.logger.Debug("decode status", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, h.service.UpdateStatus(r.Context(), authz.ActorFromContext(r.Context()), id, input), 0)
}
