package pgmodel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/tourhub/tourhub/internal/crud"
)

type place struct {
	crud.Base
	Name string
	Slug string
	Kind string
}

func placeTable() Table[*place] {
	return Table[*place]{
		Name:          "places",
		Columns:       []string{"name", "slug", "kind"},
		New:           func() *place { return &place{} },
		Values:        func(p *place) []any { return []any{p.Name, p.Slug, p.Kind} },
		Targets:       func(p *place) []any { return []any{&p.Name, &p.Slug, &p.Kind} },
		Filters:       map[string]string{"kind": "kind", "destinationId": "destination_id"},
		SearchColumns: []string{"name", "slug"},
		SortColumns:   map[string]string{"name": "name"},
		SlugColumn:    "slug",
	}
}

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs   []execCall
	execTag string
	execErr error
	row     pgx.Row
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(f.execTag), f.execErr
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return f.row
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type boolRow struct{ value bool }

func (r boolRow) Scan(dest ...any) error {
	*(dest[0].(*bool)) = r.value
	return nil
}

func TestWhereBuildsScopedFilters(t *testing.T) {
	m := New[*place](&fakeDB{}, placeTable())
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	where, args := m.where(crud.Query{
		Scope:         crud.ScopeOnlyDeleted,
		DeletedBefore: &cutoff,
		Filters:       map[string]any{"kind": "BEACH", "unknown": "ignored", "destinationId": []string{"a", "b"}},
		Search:        "50%_off",
	})
	require.Equal(t,
		"WHERE deleted_at IS NOT NULL AND deleted_at < $1 AND destination_id = ANY($2) AND kind = $3 AND (name ILIKE $4 OR slug ILIKE $4)",
		where)
	require.Equal(t, []any{cutoff, []string{"a", "b"}, "BEACH", `%50\%\_off%`}, args)

	where, args = m.where(crud.Query{})
	require.Equal(t, "WHERE deleted_at IS NULL", where)
	require.Empty(t, args)

	where, _ = m.where(crud.Query{Scope: crud.ScopeWithDeleted})
	require.Empty(t, where)
}

func TestOrderByFallsBackToCreatedAt(t *testing.T) {
	m := New[*place](&fakeDB{}, placeTable())
	require.Equal(t, "name DESC, id DESC", m.orderBy(crud.Query{SortBy: "name", SortDesc: true}))
	require.Equal(t, "created_at ASC, id ASC", m.orderBy(crud.Query{SortBy: "password"}))
}

func TestCreateMapsUniqueViolation(t *testing.T) {
	conn := &fakeDB{execErr: &pgconn.PgError{Code: "23505", ConstraintName: "places_slug_key"}}
	m := New[*place](conn, placeTable())

	_, err := m.Create(context.Background(), &place{Base: crud.Base{ID: uuid.New()}, Name: "Bay", Slug: "bay"})
	require.ErrorIs(t, err, crud.ErrDuplicate)
	require.Len(t, conn.execs, 1)
	require.True(t, strings.HasPrefix(conn.execs[0].sql, "INSERT INTO places (id, created_at"))
	require.Len(t, conn.execs[0].args, len(baseColumns)+3)
}

func TestUpdateAndHardDeleteReportMissingRows(t *testing.T) {
	conn := &fakeDB{execTag: "UPDATE 0"}
	m := New[*place](conn, placeTable())
	id := uuid.New()

	_, err := m.Update(context.Background(), &place{Base: crud.Base{ID: id}})
	require.ErrorIs(t, err, crud.ErrNoRecord)
	require.Contains(t, conn.execs[0].sql, "WHERE id = $1")
	require.Contains(t, conn.execs[0].sql, "created_at = $2")
	require.Equal(t, id, conn.execs[0].args[0])

	conn.execTag = "DELETE 0"
	require.ErrorIs(t, m.HardDelete(context.Background(), id), crud.ErrNoRecord)

	conn.execTag = "DELETE 1"
	require.NoError(t, m.HardDelete(context.Background(), id))
}

func TestFindByIDMapsNoRows(t *testing.T) {
	m := New[*place](&fakeDB{row: errRow{err: pgx.ErrNoRows}}, placeTable())
	_, err := m.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, crud.ErrNoRecord)

	boom := errors.New("conn closed")
	m = New[*place](&fakeDB{row: errRow{err: boom}}, placeTable())
	_, err = m.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, crud.ErrNoRecord)
}

func TestSlugExists(t *testing.T) {
	m := New[*place](&fakeDB{row: boolRow{value: true}}, placeTable())
	exists, err := m.SlugExists(context.Background(), "bay")
	require.NoError(t, err)
	require.True(t, exists)

	table := placeTable()
	table.SlugColumn = ""
	exists, err = New[*place](&fakeDB{}, table).SlugExists(context.Background(), "bay")
	require.NoError(t, err)
	require.False(t, exists)
}
