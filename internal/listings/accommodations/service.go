// Package accommodations manages host-owned properties and their moderation.
package accommodations

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/lifecycle"
	"github.com/tourhub/tourhub/internal/shared"
)

// Entity is the name used in logs, metrics and errors.
const Entity = "accommodation"

const (
	// OpUpdateVisibility publishes or hides a listing.
	OpUpdateVisibility crud.Operation = "updateVisibility"
	// OpUpdateStatus records a moderation decision.
	OpUpdateStatus crud.Operation = "updateStatus"
)

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

// Service exposes the standard operations plus moderation for accommodations.
type Service struct {
	*crud.Service[*Accommodation, CreateInput, UpdateInput, SearchInput]
}

// Policy maps accommodation operations to permissions.
func Policy() crud.Policy {
	return crud.Policy{
		crud.OpCreate:      authz.PermAccommodationCreate,
		crud.OpView:        authz.PermAccommodationView,
		crud.OpList:        authz.PermAccommodationList,
		crud.OpSearch:      authz.PermAccommodationSearch,
		crud.OpCount:       authz.PermAccommodationCount,
		crud.OpUpdate:      authz.PermAccommodationUpdate,
		crud.OpDelete:      authz.PermAccommodationDelete,
		crud.OpRestore:     authz.PermAccommodationRestore,
		crud.OpHardDelete:  authz.PermAccommodationHardDelete,
		crud.OpViewDeleted: authz.PermAccommodationViewDeleted,
		OpUpdateVisibility: authz.PermAccommodationVisibilityUpdate,
		OpUpdateStatus:     authz.PermAccommodationStatusManage,
	}
}

// Authorizer lets hosts update and soft-delete the listings they own.
func Authorizer() crud.OwnerAuthorizer[*Accommodation] {
	return crud.OwnerAuthorizer[*Accommodation]{
		Policy: Policy(),
		Rules: []crud.OwnerRule[*Accommodation]{
			{Op: crud.OpUpdate, Own: authz.PermAccommodationUpdateOwn, Owner: owner},
			{Op: crud.OpDelete, Own: authz.PermAccommodationDeleteOwn, Owner: owner},
		},
	}
}

// NewService constructs the accommodation service.
func NewService(repo Repository, opts Options) *Service {
	svc := crud.NewService[*Accommodation, CreateInput, UpdateInput, SearchInput](crud.Config[*Accommodation, CreateInput, UpdateInput]{
		Entity:     Entity,
		Model:      repo,
		Policy:     Policy(),
		Authorizer: Authorizer(),
		Logger:     opts.Logger,
		Metrics:    opts.Metrics,
		New: func(actor *authz.Actor, in CreateInput) *Accommodation {
			return newAccommodation(actor.ID, in)
		},
		Apply: apply,
		Prepare: func(ctx context.Context, _ *authz.Actor, a *Accommodation) error {
			if opts.Destinations == nil {
				return nil
			}
			return opts.Destinations.CheckReference(ctx, a.DestinationID)
		},
		Clock: opts.Clock,
	})
	return &Service{Service: svc}
}

// UpdateVisibility publishes or hides an active listing. Only APPROVED
// listings can be made visible.
func (s *Service) UpdateVisibility(ctx context.Context, actor *authz.Actor, id uuid.UUID, in VisibilityInput) shared.Result[*Accommodation] {
	return crud.Run(ctx, s.Logger(), "updateVisibility", actor, in, func(ctx context.Context) (*Accommodation, error) {
		a, err := s.loadForModeration(ctx, actor, OpUpdateVisibility, id, in)
		if err != nil {
			return nil, err
		}
		if *in.Visible && a.Status != StatusApproved {
			return nil, shared.Conflict("only approved accommodations can be made visible")
		}
		if a.Visible == *in.Visible {
			return a, nil
		}
		a.Visible = *in.Visible
		return s.Save(ctx, actor, a)
	})
}

// UpdateStatus records a moderation decision on an active listing. Leaving
// APPROVED hides the listing.
func (s *Service) UpdateStatus(ctx context.Context, actor *authz.Actor, id uuid.UUID, in StatusInput) shared.Result[*Accommodation] {
	return crud.Run(ctx, s.Logger(), "updateStatus", actor, in, func(ctx context.Context) (*Accommodation, error) {
		a, err := s.loadForModeration(ctx, actor, OpUpdateStatus, id, in)
		if err != nil {
			return nil, err
		}
		a.Status = in.Status
		a.ModerationNote = in.Note
		if a.Status != StatusApproved {
			a.Visible = false
		}
		return s.Save(ctx, actor, a)
	})
}

func (s *Service) loadForModeration(ctx context.Context, actor *authz.Actor, op crud.Operation, id uuid.UUID, input any) (*Accommodation, error) {
	if err := s.Authorize(actor, op); err != nil {
		return nil, err
	}
	if err := s.Validate(input); err != nil {
		return nil, err
	}
	a, err := s.Load(ctx, actor, id, crud.LoadVisible)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeEntity(actor, op, a); err != nil {
		return nil, err
	}
	if err := lifecycle.RequireActive(a.State()); err != nil {
		return nil, err
	}
	return a, nil
}
