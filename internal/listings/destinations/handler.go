package destinations

import (
	"log/slog"

	"github.com/tourhub/tourhub/internal/crud/crudhttp"
)

// Handler serves /destinations.
type Handler = crudhttp.Handler[*Destination, CreateInput, UpdateInput, SearchInput]

// NewHandler constructs the destination HTTP handler.
func NewHandler(logger *slog.Logger, svc *Service) *Handler {
	return crudhttp.NewHandler[*Destination, CreateInput, UpdateInput, SearchInput](logger, svc)
}
