package destinations

import (
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/crud/pgmodel"
	"github.com/tourhub/tourhub/internal/platform/db"
)

// Repository is the storage contract for destinations.
type Repository interface {
	crud.Model[*Destination]
	crud.SlugChecker
}

func table() pgmodel.Table[*Destination] {
	return pgmodel.Table[*Destination]{
		Name:    "destinations",
		Columns: []string{"name", "slug", "country", "region", "description", "featured"},
		New:     func() *Destination { return &Destination{} },
		Values: func(d *Destination) []any {
			return []any{d.Name, d.Slug, d.Country, d.Region, d.Description, d.Featured}
		},
		Targets: func(d *Destination) []any {
			return []any{&d.Name, &d.Slug, &d.Country, &d.Region, &d.Description, &d.Featured}
		},
		Filters:       map[string]string{"country": "country", "featured": "featured"},
		SearchColumns: []string{"name", "region", "description"},
		SortColumns:   map[string]string{"name": "name", "country": "country", "createdAt": "created_at", "updatedAt": "updated_at"},
		SlugColumn:    "slug",
	}
}

// NewPostgresRepository returns a Repository over the destinations table.
func NewPostgresRepository(conn db.DBTX) Repository {
	return pgmodel.New(conn, table())
}

// NewMemoryRepository returns an in-process Repository.
func NewMemoryRepository() Repository {
	return crud.NewMemoryModel(clone,
		crud.WithMatch(match),
		crud.WithSortKey("name", func(a, b *Destination) bool { return a.Name < b.Name }),
		crud.WithSortKey("country", func(a, b *Destination) bool { return a.Country < b.Country }),
	)
}

func match(d *Destination, q crud.Query) bool {
	if v, ok := q.Filter("country"); ok && d.Country != v {
		return false
	}
	if v, ok := q.Filter("featured"); ok && d.Featured != v {
		return false
	}
	return crud.ContainsFold(q.Search, d.Name, d.Region, d.Description)
}
