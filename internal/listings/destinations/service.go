// Package destinations manages travel destinations.
package destinations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/lifecycle"
	"github.com/tourhub/tourhub/internal/shared"
)

// Entity is the name used in logs, metrics and errors.
const Entity = "destination"

// Options carries the optional collaborators of a Service.
type Options struct {
	Logger  *slog.Logger
	Metrics crud.Recorder
	Clock   func() time.Time
}

// Service exposes the standard operations for destinations.
type Service struct {
	*crud.Service[*Destination, CreateInput, UpdateInput, SearchInput]
	repo Repository
}

// Policy maps destination operations to permissions.
func Policy() crud.Policy {
	return crud.Policy{
		crud.OpCreate:      authz.PermDestinationCreate,
		crud.OpView:        authz.PermDestinationView,
		crud.OpList:        authz.PermDestinationList,
		crud.OpSearch:      authz.PermDestinationSearch,
		crud.OpCount:       authz.PermDestinationCount,
		crud.OpUpdate:      authz.PermDestinationUpdate,
		crud.OpDelete:      authz.PermDestinationDelete,
		crud.OpRestore:     authz.PermDestinationRestore,
		crud.OpHardDelete:  authz.PermDestinationHardDelete,
		crud.OpViewDeleted: authz.PermDestinationViewDeleted,
	}
}

// NewService constructs the destination service.
func NewService(repo Repository, opts Options) *Service {
	svc := crud.NewService[*Destination, CreateInput, UpdateInput, SearchInput](crud.Config[*Destination, CreateInput, UpdateInput]{
		Entity:  Entity,
		Model:   repo,
		Policy:  Policy(),
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
		New:     func(_ *authz.Actor, in CreateInput) *Destination { return newDestination(in) },
		Apply:   apply,
		Clock:   opts.Clock,
	})
	return &Service{Service: svc, repo: repo}
}

// Active reports whether id names an ACTIVE destination. It does not
// authorize and is meant for reference checks by other services.
func (s *Service) Active(ctx context.Context, id uuid.UUID) (bool, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, crud.ErrNoRecord) {
			return false, nil
		}
		return false, fmt.Errorf("destinations: lookup %s: %w", id, err)
	}
	return d != nil && d.State() == lifecycle.Active, nil
}

// CheckReference returns VALIDATION_ERROR on destinationId unless id is nil
// or names an ACTIVE destination.
func (s *Service) CheckReference(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.Active(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.Validation("unknown destination", shared.Issue{
			Path:    "destinationId",
			Rule:    "exists",
			Message: "destinationId must reference an active destination",
		})
	}
	return nil
}
