package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/lifecycle"
	"github.com/tourhub/tourhub/internal/shared"
	"github.com/tourhub/tourhub/internal/slug"
	"github.com/tourhub/tourhub/internal/validation"
)

// Config wires a Service. New and Apply may be nil for entities that do not
// support create or update. Prepare, when set, runs on the built or patched
// entity right before it is persisted.
type Config[T Entity, C any, U any] struct {
	Entity     string
	Model      Model[T]
	Policy     Policy
	Authorizer Authorizer[T]
	Validator  *validation.Validator
	Logger     *slog.Logger
	Metrics    Recorder
	New        func(*authz.Actor, C) T
	Apply      func(T, U)
	Prepare    func(ctx context.Context, actor *authz.Actor, entity T) error
	Clock      func() time.Time
}

// Service runs the standard operations for one entity type.
type Service[T Entity, C any, U any, S Searcher] struct {
	entity     string
	model      Model[T]
	authorizer Authorizer[T]
	validator  *validation.Validator
	log        *OperationLogger
	newEntity  func(*authz.Actor, C) T
	apply      func(T, U)
	prepare    func(context.Context, *authz.Actor, T) error
	now        func() time.Time
}

// LoadMode selects which lifecycle states Load accepts.
type LoadMode int

const (
	// LoadVisible hides soft-deleted rows from actors without view-deleted.
	LoadVisible LoadMode = iota
	// LoadAny accepts active and soft-deleted rows.
	LoadAny
)

// NewService constructs a Service from cfg.
func NewService[T Entity, C any, U any, S Searcher](cfg Config[T, C, U]) *Service[T, C, U, S] {
	authorizer := cfg.Authorizer
	if authorizer == nil {
		authorizer = PolicyAuthorizer[T]{Policy: cfg.Policy}
	}
	validator := cfg.Validator
	if validator == nil {
		validator = validation.New()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Service[T, C, U, S]{
		entity:     cfg.Entity,
		model:      cfg.Model,
		authorizer: authorizer,
		validator:  validator,
		log:        NewOperationLogger(cfg.Entity, cfg.Logger, cfg.Metrics),
		newEntity:  cfg.New,
		apply:      cfg.Apply,
		prepare:    cfg.Prepare,
		now:        clock,
	}
}

// Entity returns the entity name.
func (s *Service[T, C, U, S]) Entity() string {
	return s.entity
}

// Logger returns the operation logger for business methods passed to Run.
func (s *Service[T, C, U, S]) Logger() *OperationLogger {
	return s.log
}

// Now returns the service clock reading.
func (s *Service[T, C, U, S]) Now() time.Time {
	return s.now()
}

// Create authorizes, validates, allocates a slug when applicable and persists
// a new ACTIVE entity.
func (s *Service[T, C, U, S]) Create(ctx context.Context, actor *authz.Actor, input C) shared.Result[T] {
	return Run(ctx, s.log, "create", actor, input, func(ctx context.Context) (entity T, err error) {
		if err = s.Authorize(actor, OpCreate); err != nil {
			return entity, err
		}
		if s.newEntity == nil {
			return entity, shared.NotImplemented(s.entity + ".create")
		}
		if err = s.Validate(input); err != nil {
			return entity, err
		}

		entity = s.newEntity(actor, input)
		entity.Audit().stampCreated(actor, s.now())
		if err = s.runPrepare(ctx, actor, entity); err != nil {
			return entity, err
		}
		if err = s.assignSlug(ctx, input, entity); err != nil {
			return entity, err
		}

		created, err := s.model.Create(ctx, entity)
		if err != nil {
			return entity, s.storageError("create", err)
		}
		return created, nil
	})
}

// FindByID returns a visible entity.
func (s *Service[T, C, U, S]) FindByID(ctx context.Context, actor *authz.Actor, id uuid.UUID) shared.Result[T] {
	return Run(ctx, s.log, "findById", actor, id, func(ctx context.Context) (entity T, err error) {
		if err = s.Authorize(actor, OpView); err != nil {
			return entity, err
		}
		return s.Load(ctx, actor, id, LoadVisible)
	})
}

// List returns one page of entities using the plain list parameters.
func (s *Service[T, C, U, S]) List(ctx context.Context, actor *authz.Actor, params ListParams) shared.Result[shared.Page[T]] {
	return Run(ctx, s.log, "list", actor, params, func(ctx context.Context) (shared.Page[T], error) {
		return s.findAll(ctx, actor, OpList, params, params.ToQuery())
	})
}

// Search returns one page of entities matching input.
func (s *Service[T, C, U, S]) Search(ctx context.Context, actor *authz.Actor, input S) shared.Result[shared.Page[T]] {
	return Run(ctx, s.log, "search", actor, input, func(ctx context.Context) (shared.Page[T], error) {
		return s.findAll(ctx, actor, OpSearch, input, input.ToQuery())
	})
}

// Count returns the number of entities matching input.
func (s *Service[T, C, U, S]) Count(ctx context.Context, actor *authz.Actor, input S) shared.Result[int] {
	return Run(ctx, s.log, "count", actor, input, func(ctx context.Context) (int, error) {
		q, err := s.prepareQuery(actor, OpCount, input, input.ToQuery())
		if err != nil {
			return 0, err
		}
		total, err := s.model.Count(ctx, q)
		if err != nil {
			return 0, s.storageError("count", err)
		}
		return total, nil
	})
}

// Update applies a partial update to an active, visible entity.
func (s *Service[T, C, U, S]) Update(ctx context.Context, actor *authz.Actor, id uuid.UUID, input U) shared.Result[T] {
	return Run(ctx, s.log, "update", actor, map[string]any{"id": id, "input": input}, func(ctx context.Context) (entity T, err error) {
		if err = s.Authorize(actor, OpUpdate); err != nil {
			return entity, err
		}
		if s.apply == nil {
			return entity, shared.NotImplemented(s.entity + ".update")
		}
		if err = s.Validate(input); err != nil {
			return entity, err
		}
		if entity, err = s.Load(ctx, actor, id, LoadVisible); err != nil {
			return entity, err
		}
		if err = s.AuthorizeEntity(actor, OpUpdate, entity); err != nil {
			return entity, err
		}
		if err = lifecycle.RequireActive(entity.Audit().State()); err != nil {
			return entity, err
		}

		s.apply(entity, input)
		if err = s.runPrepare(ctx, actor, entity); err != nil {
			return entity, err
		}
		return s.Save(ctx, actor, entity)
	})
}

// SoftDelete stamps the deletion fields. Soft-deleting a soft-deleted entity
// is a no-op success.
func (s *Service[T, C, U, S]) SoftDelete(ctx context.Context, actor *authz.Actor, id uuid.UUID) shared.Result[T] {
	return Run(ctx, s.log, "softDelete", actor, id, func(ctx context.Context) (entity T, err error) {
		if entity, err = s.loadForTransition(ctx, actor, OpDelete, id); err != nil {
			return entity, err
		}
		tr, err := lifecycle.SoftDelete(entity.Audit().State())
		if err != nil || !tr.Changed {
			return entity, err
		}
		entity.Audit().markDeleted(actor, s.now())
		return s.persist(ctx, entity)
	})
}

// Restore clears the deletion fields. Restoring an active entity is a no-op
// success.
func (s *Service[T, C, U, S]) Restore(ctx context.Context, actor *authz.Actor, id uuid.UUID) shared.Result[T] {
	return Run(ctx, s.log, "restore", actor, id, func(ctx context.Context) (entity T, err error) {
		if entity, err = s.loadForTransition(ctx, actor, OpRestore, id); err != nil {
			return entity, err
		}
		tr, err := lifecycle.Restore(entity.Audit().State())
		if err != nil || !tr.Changed {
			return entity, err
		}
		entity.Audit().clearDeleted(actor, s.now())
		return s.persist(ctx, entity)
	})
}

// HardDelete physically removes the entity and returns its last snapshot.
func (s *Service[T, C, U, S]) HardDelete(ctx context.Context, actor *authz.Actor, id uuid.UUID) shared.Result[T] {
	return Run(ctx, s.log, "hardDelete", actor, id, func(ctx context.Context) (entity T, err error) {
		if entity, err = s.loadForTransition(ctx, actor, OpHardDelete, id); err != nil {
			return entity, err
		}
		if _, err = lifecycle.HardDelete(entity.Audit().State()); err != nil {
			return entity, err
		}
		if err = s.model.HardDelete(ctx, id); err != nil {
			return entity, s.storageError("hard delete", err)
		}
		return entity, nil
	})
}

// PurgeSoftDeleted hard-deletes up to batch entities soft-deleted before
// cutoff and returns how many were removed.
func (s *Service[T, C, U, S]) PurgeSoftDeleted(ctx context.Context, actor *authz.Actor, cutoff time.Time, batch int) shared.Result[int] {
	input := map[string]any{"cutoff": cutoff, "batch": batch}
	return Run(ctx, s.log, "purge", actor, input, func(ctx context.Context) (int, error) {
		if err := s.Authorize(actor, OpHardDelete); err != nil {
			return 0, err
		}
		page, err := s.model.FindAll(ctx, Query{
			Page:          1,
			PageSize:      batch,
			Scope:         ScopeOnlyDeleted,
			DeletedBefore: &cutoff,
		}.Normalized())
		if err != nil {
			return 0, s.storageError("find purgeable", err)
		}

		purged := 0
		for _, entity := range page.Items {
			id := entity.Audit().ID
			if _, err := lifecycle.HardDelete(entity.Audit().State()); err != nil {
				s.log.Warn(ctx, "purge", "lifecycle", slog.String("id", id.String()), slog.Any("error", err))
				continue
			}
			if err := s.model.HardDelete(ctx, id); err != nil {
				if errors.Is(err, ErrNoRecord) {
					s.log.Warn(ctx, "purge", "missing", slog.String("id", id.String()))
					continue
				}
				return purged, s.storageError("purge", err)
			}
			purged++
		}
		return purged, nil
	})
}

// Authorize checks the actor and the operation before any I/O.
func (s *Service[T, C, U, S]) Authorize(actor *authz.Actor, op Operation) error {
	if !actor.Identified() {
		return shared.Forbidden("actor is required")
	}
	return s.authorizer.Check(actor, op)
}

// AuthorizeEntity runs entity predicates such as ownership.
func (s *Service[T, C, U, S]) AuthorizeEntity(actor *authz.Actor, op Operation, entity T) error {
	return s.authorizer.CheckEntity(actor, op, entity)
}

// CanViewDeleted reports whether actor may see soft-deleted rows.
func (s *Service[T, C, U, S]) CanViewDeleted(actor *authz.Actor) bool {
	if !actor.Identified() {
		return false
	}
	return actor.IsAdmin() || s.authorizer.Check(actor, OpViewDeleted) == nil
}

// Validate runs struct validation on input.
func (s *Service[T, C, U, S]) Validate(input any) error {
	if verr := s.validator.Struct(input); verr != nil {
		return verr
	}
	return nil
}

// Load fetches id. PURGED or missing rows are NOT_FOUND; with LoadVisible so
// are soft-deleted rows the actor may not see.
func (s *Service[T, C, U, S]) Load(ctx context.Context, actor *authz.Actor, id uuid.UUID, mode LoadMode) (T, error) {
	var zero T
	entity, err := s.model.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return zero, shared.NotFound(s.entity, id)
		}
		return zero, fmt.Errorf("%s: find %s: %w", s.entity, id, err)
	}
	if entity == zero {
		return zero, shared.NotFound(s.entity, id)
	}
	if mode == LoadVisible && !lifecycle.Visible(entity.Audit().State(), s.CanViewDeleted(actor)) {
		return zero, shared.NotFound(s.entity, id)
	}
	return entity, nil
}

// Save stamps the update audit fields and persists entity.
func (s *Service[T, C, U, S]) Save(ctx context.Context, actor *authz.Actor, entity T) (T, error) {
	entity.Audit().stampUpdated(actor, s.now())
	return s.persist(ctx, entity)
}

func (s *Service[T, C, U, S]) persist(ctx context.Context, entity T) (T, error) {
	updated, err := s.model.Update(ctx, entity)
	if err != nil {
		return entity, s.storageError("update", err)
	}
	return updated, nil
}

func (s *Service[T, C, U, S]) runPrepare(ctx context.Context, actor *authz.Actor, entity T) error {
	if s.prepare == nil {
		return nil
	}
	return s.prepare(ctx, actor, entity)
}

func (s *Service[T, C, U, S]) loadForTransition(ctx context.Context, actor *authz.Actor, op Operation, id uuid.UUID) (T, error) {
	var zero T
	if err := s.Authorize(actor, op); err != nil {
		return zero, err
	}
	entity, err := s.Load(ctx, actor, id, LoadAny)
	if err != nil {
		return zero, err
	}
	if err := s.AuthorizeEntity(actor, op, entity); err != nil {
		return zero, err
	}
	return entity, nil
}

func (s *Service[T, C, U, S]) findAll(ctx context.Context, actor *authz.Actor, op Operation, input any, q Query) (shared.Page[T], error) {
	q, err := s.prepareQuery(actor, op, input, q)
	if err != nil {
		return shared.Page[T]{}, err
	}
	page, err := s.model.FindAll(ctx, q)
	if err != nil {
		return shared.Page[T]{}, s.storageError(string(op), err)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

func (s *Service[T, C, U, S]) prepareQuery(actor *authz.Actor, op Operation, input any, q Query) (Query, error) {
	if err := s.Authorize(actor, op); err != nil {
		return q, err
	}
	if err := s.Validate(input); err != nil {
		return q, err
	}
	if q.Scope != ScopeVisible && !s.CanViewDeleted(actor) {
		return q, shared.Forbidden("viewing deleted " + s.entity + " records is not permitted")
	}
	return q.Normalized(), nil
}

func (s *Service[T, C, U, S]) assignSlug(ctx context.Context, input C, entity T) error {
	named, ok := any(input).(Named)
	if !ok {
		return nil
	}
	target, ok := any(entity).(Sluggable)
	if !ok {
		return nil
	}
	var exists slug.ExistsFunc
	if checker, ok := s.model.(SlugChecker); ok {
		exists = checker.SlugExists
	}
	value, err := slug.Generate(ctx, named.SlugSource(), exists)
	if err != nil {
		return err
	}
	target.SetSlug(value)
	return nil
}

func (s *Service[T, C, U, S]) storageError(action string, err error) error {
	switch {
	case errors.Is(err, ErrNoRecord):
		return shared.NewError(shared.CodeNotFound, s.entity+" not found")
	case errors.Is(err, ErrDuplicate):
		return shared.Conflict(s.entity + " conflicts with an existing record").WithCause(err)
	default:
		return fmt.Errorf("%s: %s: %w", s.entity, action, err)
	}
}
