package attractions

import (
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/crud/pgmodel"
	"github.com/tourhub/tourhub/internal/platform/db"
)

// Repository is the storage contract for attractions.
type Repository interface {
	crud.Model[*Attraction]
	crud.SlugChecker
}

func table() pgmodel.Table[*Attraction] {
	return pgmodel.Table[*Attraction]{
		Name:    "attractions",
		Columns: []string{"name", "slug", "destination_id", "category", "address", "opening_hours", "description"},
		New:     func() *Attraction { return &Attraction{} },
		Values: func(a *Attraction) []any {
			return []any{a.Name, a.Slug, a.DestinationID, a.Category, a.Address, a.OpeningHours, a.Description}
		},
		Targets: func(a *Attraction) []any {
			return []any{&a.Name, &a.Slug, &a.DestinationID, &a.Category, &a.Address, &a.OpeningHours, &a.Description}
		},
		Filters:       map[string]string{"destinationId": "destination_id", "category": "category"},
		SearchColumns: []string{"name", "address", "description"},
		SortColumns:   map[string]string{"name": "name", "category": "category", "createdAt": "created_at", "updatedAt": "updated_at"},
		SlugColumn:    "slug",
	}
}

// NewPostgresRepository returns a Repository over the attractions table.
func NewPostgresRepository(conn db.DBTX) Repository {
	return pgmodel.New(conn, table())
}

// NewMemoryRepository returns an in-process Repository.
func NewMemoryRepository() Repository {
	return crud.NewMemoryModel(clone,
		crud.WithMatch(match),
		crud.WithSortKey("name", func(a, b *Attraction) bool { return a.Name < b.Name }),
		crud.WithSortKey("category", func(a, b *Attraction) bool { return a.Category < b.Category }),
	)
}

func match(a *Attraction, q crud.Query) bool {
	if v, ok := q.Filter("destinationId"); ok && (a.DestinationID == nil || *a.DestinationID != v) {
		return false
	}
	if v, ok := q.Filter("category"); ok && a.Category != v {
		return false
	}
	return crud.ContainsFold(q.Search, a.Name, a.Address, a.Description)
}
