// Package attractions manages points of interest and activities.
package attractions

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/crud"
)

// Entity is the name used in logs, metrics and errors.
const Entity = "attraction"

// DestinationChecker confirms destination references. *destinations.Service
// satisfies it.
type DestinationChecker interface {
	CheckReference(ctx context.Context, id *uuid.UUID) error
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Logger       *slog.Logger
	Metrics      crud.Recorder
	Clock        func() time.Time
	Destinations DestinationChecker
}

// Service exposes the standard operations for attractions.
type Service struct {
	*crud.Service[*Attraction, CreateInput, UpdateInput, SearchInput]
}

// Policy maps attraction operations to permissions.
func Policy() crud.Policy {
	return crud.Policy{
		crud.OpCreate:      authz.PermAttractionCreate,
		crud.OpView:        authz.PermAttractionView,
		crud.OpList:        authz.PermAttractionList,
		crud.OpSearch:      authz.PermAttractionSearch,
		crud.OpCount:       authz.PermAttractionCount,
		crud.OpUpdate:      authz.PermAttractionUpdate,
		crud.OpDelete:      authz.PermAttractionDelete,
		crud.OpRestore:     authz.PermAttractionRestore,
		crud.OpHardDelete:  authz.PermAttractionHardDelete,
		crud.OpViewDeleted: authz.PermAttractionViewDeleted,
	}
}

// NewService constructs the attraction service.
func NewService(repo Repository, opts Options) *Service {
	svc := crud.NewService[*Attraction, CreateInput, UpdateInput, SearchInput](crud.Config[*Attraction, CreateInput, UpdateInput]{
		Entity:  Entity,
		Model:   repo,
		Policy:  Policy(),
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
		New:     func(_ *authz.Actor, in CreateInput) *Attraction { return newAttraction(in) },
		Apply:   apply,
		Prepare: checkDestination(opts.Destinations),
		Clock:   opts.Clock,
	})
	return &Service{Service: svc}
}

func checkDestination(destinations DestinationChecker) func(context.Context, *authz.Actor, *Attraction) error {
	return func(ctx context.Context, _ *authz.Actor, a *Attraction) error {
		if destinations == nil {
			return nil
		}
		return destinations.CheckReference(ctx, a.DestinationID)
	}
}
