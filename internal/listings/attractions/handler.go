package attractions

import (
	"log/slog"

	"github.com/tourhub/tourhub/internal/crud/crudhttp"
)

// Handler serves /attractions.
type Handler = crudhttp.Handler[*Attraction, CreateInput, UpdateInput, SearchInput]

// NewHandler constructs the attraction HTTP handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	return crudhttp.NewHandler[*Attraction, CreateInput, UpdateInput, SearchInput](logger, svc)
}
