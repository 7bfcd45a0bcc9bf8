// Package pgmodel implements crud.Model over Postgres with pgx.
package pgmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/platform/db"
	"github.com/tourhub/tourhub/internal/shared"
)

var baseColumns = []string{
	"id", "created_at", "updated_at", "created_by_id", "updated_by_id",
	"deleted_at", "deleted_by_id", "admin_info",
}

// Table describes how an entity maps to its table. Columns, Values and
// Targets exclude the base columns and must line up.
type Table[T crud.Entity] struct {
	Name    string
	Columns []string
	New     func() T
	Values  func(T) []any
	Targets func(T) []any
	// Filters maps query filter keys to columns compared by equality.
	Filters map[string]string
	// SearchColumns are matched with ILIKE against Query.Search.
	SearchColumns []string
	// SortColumns maps public sort keys to columns.
	SortColumns map[string]string
	SlugColumn  string
}

// Model is a crud.Model backed by one Postgres table.
type Model[T crud.Entity] struct {
	db    db.DBTX
	table Table[T]
}

// New returns a Model for table using conn.
func New[T crud.Entity](conn db.DBTX, table Table[T]) *Model[T] {
	return &Model[T]{db: conn, table: table}
}

func (m *Model[T]) columns() []string {
	return append(append([]string{}, baseColumns...), m.table.Columns...)
}

func (m *Model[T]) values(entity T) []any {
	b := entity.Audit()
	base := []any{b.ID, b.CreatedAt, b.UpdatedAt, b.CreatedByID, b.UpdatedByID, b.DeletedAt, b.DeletedByID, b.AdminInfo}
	return append(base, m.table.Values(entity)...)
}

func (m *Model[T]) targets(entity T) []any {
	b := entity.Audit()
	base := []any{&b.ID, &b.CreatedAt, &b.UpdatedAt, &b.CreatedByID, &b.UpdatedByID, &b.DeletedAt, &b.DeletedByID, &b.AdminInfo}
	return append(base, m.table.Targets(entity)...)
}

func (m *Model[T]) FindByID(ctx context.Context, id uuid.UUID) (T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", strings.Join(m.columns(), ", "), m.table.Name)
	entity := m.table.New()
	if err := m.db.QueryRow(ctx, query, id).Scan(m.targets(entity)...); err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, crud.ErrNoRecord
		}
		return zero, fmt.Errorf("%s: find by id: %w", m.table.Name, err)
	}
	return entity, nil
}

func (m *Model[T]) FindAll(ctx context.Context, q crud.Query) (shared.Page[T], error) {
	q = q.Normalized()
	where, args := m.where(q)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", m.table.Name, where)
	var total int
	if err := m.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return shared.Page[T]{}, fmt.Errorf("%s: count: %w", m.table.Name, err)
	}

	argPos := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, strings.Join(m.columns(), ", "), m.table.Name, where, m.orderBy(q), argPos, argPos+1)
	args = append(args, q.PageSize, shared.Offset(q.Page, q.PageSize))

	rows, err := m.db.Query(ctx, query, args...)
	if err != nil {
		return shared.Page[T]{}, fmt.Errorf("%s: list: %w", m.table.Name, err)
	}
	defer rows.Close()

	items := make([]T, 0, q.PageSize)
	for rows.Next() {
		entity := m.table.New()
		if err := rows.Scan(m.targets(entity)...); err != nil {
			return shared.Page[T]{}, fmt.Errorf("%s: scan: %w", m.table.Name, err)
		}
		items = append(items, entity)
	}
	if err := rows.Err(); err != nil {
		return shared.Page[T]{}, fmt.Errorf("%s: rows: %w", m.table.Name, err)
	}
	return shared.NewPage(items, q.Page, q.PageSize, total), nil
}

func (m *Model[T]) Count(ctx context.Context, q crud.Query) (int, error) {
	where, args := m.where(q.Normalized())
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", m.table.Name, where)
	if err := m.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: count: %w", m.table.Name, err)
	}
	return total, nil
}

func (m *Model[T]) Create(ctx context.Context, entity T) (T, error) {
	cols := m.columns()
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		m.table.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := m.db.Exec(ctx, query, m.values(entity)...); err != nil {
		var zero T
		return zero, m.writeError("create", err)
	}
	return entity, nil
}

func (m *Model[T]) Update(ctx context.Context, entity T) (T, error) {
	cols := m.columns()[1:]
	values := m.values(entity)
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", m.table.Name, strings.Join(sets, ", "))
	tag, err := m.db.Exec(ctx, query, values...)
	if err != nil {
		var zero T
		return zero, m.writeError("update", err)
	}
	if tag.RowsAffected() == 0 {
		var zero T
		return zero, crud.ErrNoRecord
	}
	return entity, nil
}

func (m *Model[T]) HardDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := m.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", m.table.Name), id)
	if err != nil {
		return fmt.Errorf("%s: hard delete: %w", m.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return crud.ErrNoRecord
	}
	return nil
}

// SlugExists implements crud.SlugChecker. Soft-deleted rows count.
func (m *Model[T]) SlugExists(ctx context.Context, value string) (bool, error) {
	if m.table.SlugColumn == "" {
		return false, nil
	}
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", m.table.Name, m.table.SlugColumn)
	var exists bool
	if err := m.db.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: slug exists: %w", m.table.Name, err)
	}
	return exists, nil
}

func (m *Model[T]) writeError(action string, err error) error {
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %s: %s: %w", m.table.Name, action, db.ConstraintName(err), crud.ErrDuplicate)
	}
	return fmt.Errorf("%s: %s: %w", m.table.Name, action, err)
}
