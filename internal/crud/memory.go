package crud

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/shared"
)

// MemoryOption configures a MemoryModel.
type MemoryOption[T Entity] func(*MemoryModel[T])

// WithMatch sets the filter and search predicate.
func WithMatch[T Entity](match func(T, Query) bool) MemoryOption[T] {
	return func(m *MemoryModel[T]) { m.match = match }
}

// WithSortKey registers a sortable field.
func WithSortKey[T Entity](field string, less func(a, b T) bool) MemoryOption[T] {
	return func(m *MemoryModel[T]) { m.sorters[field] = less }
}

// MemoryModel is a Model kept in process memory. It stores clones so callers
// never share pointers with the store.
type MemoryModel[T Entity] struct {
	mu      sync.RWMutex
	rows    map[uuid.UUID]T
	clone   func(T) T
	match   func(T, Query) bool
	sorters map[string]func(a, b T) bool
}

// NewMemoryModel builds an empty MemoryModel.
func NewMemoryModel[T Entity](clone func(T) T, opts ...MemoryOption[T]) *MemoryModel[T] {
	m := &MemoryModel[T]{
		rows:  make(map[uuid.UUID]T),
		clone: clone,
		sorters: map[string]func(a, b T) bool{
			"createdAt": func(a, b T) bool { return a.Audit().CreatedAt.Before(b.Audit().CreatedAt) },
			"updatedAt": func(a, b T) bool { return a.Audit().UpdatedAt.Before(b.Audit().UpdatedAt) },
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryModel[T]) FindByID(_ context.Context, id uuid.UUID) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[id]
	if !ok {
		var zero T
		return zero, ErrNoRecord
	}
	return m.clone(row), nil
}

func (m *MemoryModel[T]) FindAll(_ context.Context, q Query) (shared.Page[T], error) {
	q = q.Normalized()
	m.mu.RLock()
	matched := m.filter(q)
	m.mu.RUnlock()

	less, ok := m.sorters[q.SortBy]
	if !ok {
		less = m.sorters["createdAt"]
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.SortDesc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.Audit().ID.String() < b.Audit().ID.String()
	})

	total := len(matched)
	start := shared.Offset(q.Page, q.PageSize)
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	items := make([]T, 0, end-start)
	for _, row := range matched[start:end] {
		items = append(items, m.clone(row))
	}
	return shared.NewPage(items, q.Page, q.PageSize, total), nil
}

func (m *MemoryModel[T]) Count(_ context.Context, q Query) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.filter(q)), nil
}

func (m *MemoryModel[T]) Create(_ context.Context, entity T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := entity.Audit().ID
	if _, ok := m.rows[id]; ok {
		var zero T
		return zero, ErrDuplicate
	}
	if m.slugTaken(entity) {
		var zero T
		return zero, ErrDuplicate
	}
	m.rows[id] = m.clone(entity)
	return m.clone(entity), nil
}

func (m *MemoryModel[T]) Update(_ context.Context, entity T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := entity.Audit().ID
	if _, ok := m.rows[id]; !ok {
		var zero T
		return zero, ErrNoRecord
	}
	if m.slugTaken(entity) {
		var zero T
		return zero, ErrDuplicate
	}
	m.rows[id] = m.clone(entity)
	return m.clone(entity), nil
}

func (m *MemoryModel[T]) HardDelete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNoRecord
	}
	delete(m.rows, id)
	return nil
}

// SlugExists implements SlugChecker.
func (m *MemoryModel[T]) SlugExists(_ context.Context, value string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.rows {
		if s, ok := any(row).(Sluggable); ok && s.GetSlug() == value {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of stored rows in any state.
func (m *MemoryModel[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

func (m *MemoryModel[T]) filter(q Query) []T {
	out := make([]T, 0, len(m.rows))
	for _, row := range m.rows {
		base := row.Audit()
		switch q.Scope {
		case ScopeVisible:
			if base.DeletedAt != nil {
				continue
			}
		case ScopeOnlyDeleted:
			if base.DeletedAt == nil {
				continue
			}
		}
		if q.DeletedBefore != nil && (base.DeletedAt == nil || !base.DeletedAt.Before(*q.DeletedBefore)) {
			continue
		}
		if m.match != nil && !m.match(row, q) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (m *MemoryModel[T]) slugTaken(entity T) bool {
	s, ok := any(entity).(Sluggable)
	if !ok || s.GetSlug() == "" {
		return false
	}
	id := entity.Audit().ID
	for otherID, row := range m.rows {
		if otherID == id {
			continue
		}
		if other, ok := any(row).(Sluggable); ok && other.GetSlug() == s.GetSlug() {
			return true
		}
	}
	return false
}

// ContainsFold reports whether any of fields contains term, ignoring case.
// Match functions use it for free-text search.
func ContainsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
