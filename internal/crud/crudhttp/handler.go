// Package crudhttp exposes a crud.Service as JSON REST routes.
package crudhttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/platform/httpx"
	"github.com/tourhub/tourhub/internal/shared"
)

// Operations is the service surface served over HTTP. *crud.Service
// satisfies it.
type Operations[T crud.Entity, C any, U any, S crud.Searcher] interface {
	Create(ctx context.Context, actor *authz.Actor, input C) shared.Result[T]
	FindByID(ctx context.Context, actor *authz.Actor, id uuid.UUID) shared.Result[T]
	List(ctx context.Context, actor *authz.Actor, params crud.ListParams) shared.Result[shared.Page[T]]
	Search(ctx context.Context, actor *authz.Actor, input S) shared.Result[shared.Page[T]]
	Count(ctx context.Context, actor *authz.Actor, input S) shared.Result[int]
	Update(ctx context.Context, actor *authz.Actor, id uuid.UUID, input U) shared.Result[T]
	SoftDelete(ctx context.Context, actor *authz.Actor, id uuid.UUID) shared.Result[T]
	Restore(ctx context.Context, actor *authz.Actor, id uuid.UUID) shared.Result[T]
	HardDelete(ctx context.Context, actor *authz.Actor, id uuid.UUID) shared.Result[T]
}

// Handler serves the standard routes for one entity.
type Handler[T crud.Entity, C any, U any, S crud.Searcher] struct {
	logger  *slog.Logger
	service Operations[T, C, U, S]
}

// NewHandler constructs a Handler.
func NewHandler[T crud.Entity, C any, U any, S crud.Searcher](logger *slog.Logger, service Operations[T, C, U, S]) *Handler[T, C, U, S] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler[T, C, U, S]{logger: logger, service: service}
}

// MountRoutes registers the routes on r, relative to the entity prefix.
func (h *Handler[T, C, U, S]) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/search", h.Search)
	r.Post("/count", h.Count)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.SoftDelete)
	r.Post("/{id}/restore", h.Restore)
	r.Delete("/{id}/hard", h.HardDelete)
}

func (h *Handler[T, C, U, S]) List(w http.ResponseWriter, r *http.Request) {
	params, err := ListParamsFromQuery(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, h.service.List(r.Context(), authz.ActorFromContext(r.Context()), params), 0)
}

func (h *Handler[T, C, U, S]) Create(w http.ResponseWriter, r *http.Request) {
	var input C
	if !h.decode(w, r, &input) {
		return
	}
	httpx.WriteResult(w, h.service.Create(r.Context(), authz.ActorFromContext(r.Context()), input), http.StatusCreated)
}

func (h *Handler[T, C, U, S]) Search(w http.ResponseWriter, r *http.Request) {
	var input S
	if !h.decode(w, r, &input) {
		return
	}
	httpx.WriteResult(w, h.service.Search(r.Context(), authz.ActorFromContext(r.Context()), input), 0)
}

func (h *Handler[T, C, U, S]) Count(w http.ResponseWriter, r *http.Request) {
	var input S
	if !h.decode(w, r, &input) {
		return
	}
	httpx.WriteResult(w, h.service.Count(r.Context(), authz.ActorFromContext(r.Context()), input), 0)
}

func (h *Handler[T, C, U, S]) Show(w http.ResponseWriter, r *http.Request) {
	id, err := IDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, h.service.FindByID(r.Context(), authz.ActorFromContext(r.Context()), id), 0)
}

func (h *Handler[T, C, U, S]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := IDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var input U
	if !h.decode(w, r, &input) {
		return
	}
	httpx.WriteResult(w, h.service.Update(r.Context(), authz.ActorFromContext(r.Context()), id, input), 0)
}

func (h *Handler[T, C, U, S]) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.service.SoftDelete)
}

func (h *Handler[T, C, U, S]) Restore(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.service.Restore)
}

func (h *Handler[T, C, U, S]) HardDelete(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.service.HardDelete)
}

func (h *Handler[T, C, U, S]) byID(w http.ResponseWriter, r *http.Request, op func(context.Context, *authz.Actor, uuid.UUID) shared.Result[T]) {
	id, err := IDParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.WriteResult(w, op(r.Context(), authz.ActorFromContext(r.Context()), id), 0)
}

func (h *Handler[T, C, U, S]) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		h.logger.Debug("decode request body", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.RespondError(w, err)
		return false
	}
	return true
}

// IDParam parses the {id} route parameter.
func IDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.Validation("invalid id", shared.Issue{
			Path:    "id",
			Rule:    "uuid",
			Message: "id must be a UUID",
		})
	}
	return id, nil
}

// ListParamsFromQuery reads page, pageSize, sortBy, sortDir, includeDeleted
// and onlyDeleted from the query string.
func ListParamsFromQuery(r *http.Request) (crud.ListParams, error) {
	query := r.URL.Query()
	params := crud.ListParams{
		SortBy:  query.Get("sortBy"),
		SortDir: query.Get("sortDir"),
	}
	var issues []shared.Issue
	intParam := func(key string, dst *int) {
		raw := query.Get(key)
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			issues = append(issues, shared.Issue{Path: key, Rule: "number", Message: key + " must be a number"})
			return
		}
		*dst = v
	}
	boolParam := func(key string, dst *bool) {
		raw := query.Get(key)
		if raw == "" {
			return
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			issues = append(issues, shared.Issue{Path: key, Rule: "boolean", Message: key + " must be true or false"})
			return
		}
		*dst = v
	}
	intParam("page", &params.Page)
	intParam("pageSize", &params.PageSize)
	boolParam("includeDeleted", &params.IncludeDeleted)
	boolParam("onlyDeleted", &params.OnlyDeleted)
	if len(issues) > 0 {
		return params, shared.Validation("invalid query parameters", issues...)
	}
	return params, nil
}
