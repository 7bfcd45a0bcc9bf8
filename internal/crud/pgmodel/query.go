package pgmodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tourhub/tourhub/internal/crud"
)

// where builds the WHERE clause and its positional args for q.
func (m *Model[T]) where(q crud.Query) (string, []any) {
	var conditions []string
	var args []any
	argPos := 1

	switch q.Scope {
	case crud.ScopeVisible:
		conditions = append(conditions, "deleted_at IS NULL")
	case crud.ScopeOnlyDeleted:
		conditions = append(conditions, "deleted_at IS NOT NULL")
	}

	if q.DeletedBefore != nil {
		conditions = append(conditions, fmt.Sprintf("deleted_at < $%d", argPos))
		args = append(args, *q.DeletedBefore)
		argPos++
	}

	keys := make([]string, 0, len(q.Filters))
	for key := range q.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		column, ok := m.table.Filters[key]
		if !ok {
			continue
		}
		value := q.Filters[key]
		switch value.(type) {
		case []string, []any:
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", column, argPos))
		default:
			conditions = append(conditions, fmt.Sprintf("%s = $%d", column, argPos))
		}
		args = append(args, value)
		argPos++
	}

	if q.Search != "" && len(m.table.SearchColumns) > 0 {
		ors := make([]string, len(m.table.SearchColumns))
		for i, col := range m.table.SearchColumns {
			ors[i] = fmt.Sprintf("%s ILIKE $%d", col, argPos)
		}
		conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
		args = append(args, "%"+escapeLike(q.Search)+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (m *Model[T]) orderBy(q crud.Query) string {
	column, ok := m.table.SortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", column, dir, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
