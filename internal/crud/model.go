package crud

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/shared"
)

// Storage sentinels returned by Model implementations.
var (
	ErrNoRecord  = errors.New("crud: no record")
	ErrDuplicate = errors.New("crud: duplicate key")
)

// Model is the persistence collaborator of a Service. FindByID returns rows
// in any lifecycle state; the service decides visibility.
type Model[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (T, error)
	FindAll(ctx context.Context, q Query) (shared.Page[T], error)
	Count(ctx context.Context, q Query) (int, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}

// SlugChecker is implemented by models of sluggable entities. Soft-deleted
// rows still hold their slug.
type SlugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Scope selects rows by lifecycle state.
type Scope int

const (
	ScopeVisible Scope = iota
	ScopeWithDeleted
	ScopeOnlyDeleted
)

// Query is the storage-neutral filter handed to a Model.
type Query struct {
	Filters       map[string]any
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortDesc      bool
	Scope         Scope
	DeletedBefore *time.Time
}

// Normalized applies pagination defaults and bounds.
func (q Query) Normalized() Query {
	q.Page, q.PageSize = shared.NormalizePage(q.Page, q.PageSize)
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Filter returns the filter value under key.
func (q Query) Filter(key string) (any, bool) {
	v, ok := q.Filters[key]
	return v, ok
}

// Searcher is implemented by list and search inputs.
type Searcher interface {
	ToQuery() Query
}

// ListParams is the plain list input. Search inputs embed it.
type ListParams struct {
	Page           int    `json:"page" validate:"gte=0"`
	PageSize       int    `json:"pageSize" validate:"gte=0,lte=100"`
	SortBy         string `json:"sortBy,omitempty" validate:"omitempty,max=64"`
	SortDir        string `json:"sortDir,omitempty" validate:"omitempty,oneof=asc desc"`
	IncludeDeleted bool   `json:"includeDeleted,omitempty"`
	OnlyDeleted    bool   `json:"onlyDeleted,omitempty"`
}

// ToQuery converts the params into a Query without filters.
func (p ListParams) ToQuery() Query {
	q := Query{
		Page:     p.Page,
		PageSize: p.PageSize,
		SortBy:   p.SortBy,
		SortDesc: strings.EqualFold(p.SortDir, "desc"),
	}
	switch {
	case p.OnlyDeleted:
		q.Scope = ScopeOnlyDeleted
	case p.IncludeDeleted:
		q.Scope = ScopeWithDeleted
	}
	return q
}
