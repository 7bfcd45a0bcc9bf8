// Package posts manages editorial content.
package posts

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/shared"
)

// Entity is the name used in logs, metrics and errors.
const Entity = "post"

// Options carries the optional collaborators of a Service.
type Options struct {
	Logger  *slog.Logger
	Metrics crud.Recorder
	Clock   func() time.Time
}

// Service exposes the standard operations for posts.
type Service struct {
	*crud.Service[*Post, CreateInput, UpdateInput, SearchInput]
}

// Policy maps post operations to permissions.
func Policy() crud.Policy {
	return crud.Policy{
		crud.OpCreate:      authz.PermPostCreate,
		crud.OpView:        authz.PermPostView,
		crud.OpList:        authz.PermPostList,
		crud.OpSearch:      authz.PermPostSearch,
		crud.OpCount:       authz.PermPostCount,
		crud.OpUpdate:      authz.PermPostUpdate,
		crud.OpDelete:      authz.PermPostDelete,
		crud.OpRestore:     authz.PermPostRestore,
		crud.OpHardDelete:  authz.PermPostHardDelete,
		crud.OpViewDeleted: authz.PermPostViewDeleted,
	}
}

// Authorizer lets authors holding post.update.own edit their own posts.
func Authorizer() crud.OwnerAuthorizer[*Post] {
	return crud.OwnerAuthorizer[*Post]{
		Policy: Policy(),
		Rules: []crud.OwnerRule[*Post]{
			{Op: crud.OpUpdate, Own: authz.PermPostUpdateOwn, Owner: author},
		},
	}
}

// NewService constructs the post service.
func NewService(repo Repository, opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	svc := crud.NewService[*Post, CreateInput, UpdateInput, SearchInput](crud.Config[*Post, CreateInput, UpdateInput]{
		Entity:     Entity,
		Model:      repo,
		Policy:     Policy(),
		Authorizer: Authorizer(),
		Logger:     opts.Logger,
		Metrics:    opts.Metrics,
		New: func(actor *authz.Actor, in CreateInput) *Post {
			return newPost(actor.ID, in)
		},
		Apply: apply,
		Prepare: func(_ context.Context, _ *authz.Actor, p *Post) error {
			stampPublished(p, clock())
			return nil
		},
		Clock: clock,
	})
	return &Service{Service: svc}
}

// stampPublished records the first publication time. Unpublishing keeps it.
func stampPublished(p *Post, now time.Time) {
	if p.Status == StatusPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// UpdateVisibility is not supported: posts are shown by publication status.
func (s *Service) UpdateVisibility(ctx context.Context, actor *authz.Actor, id uuid.UUID, in VisibilityInput) shared.Result[*Post] {
	return crud.Run(ctx, s.Logger(), "updateVisibility", actor, in, func(context.Context) (*Post, error) {
		return nil, shared.NotImplemented(Entity + ".updateVisibility")
	})
}
