package accommodations

import (
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/crud/pgmodel"
	"github.com/tourhub/tourhub/internal/platform/db"
)

// Repository is the storage contract for accommodations.
type Repository interface {
	crud.Model[*Accommodation]
	crud.SlugChecker
}

func table() pgmodel.Table[*Accommodation] {
	return pgmodel.Table[*Accommodation]{
		Name: "accommodations",
		Columns: []string{
			"name", "slug", "owner_id", "destination_id", "kind", "address", "rooms",
			"description", "visible", "status", "moderation_note",
		},
		New: func() *Accommodation { return &Accommodation{} },
		Values: func(a *Accommodation) []any {
			return []any{
				a.Name, a.Slug, a.OwnerID, a.DestinationID, a.Kind, a.Address, a.Rooms,
				a.Description, a.Visible, a.Status, a.ModerationNote,
			}
		},
		Targets: func(a *Accommodation) []any {
			return []any{
				&a.Name, &a.Slug, &a.OwnerID, &a.DestinationID, &a.Kind, &a.Address, &a.Rooms,
				&a.Description, &a.Visible, &a.Status, &a.ModerationNote,
			}
		},
		Filters: map[string]string{
			"destinationId": "destination_id",
			"ownerId":       "owner_id",
			"kind":          "kind",
			"status":        "status",
			"visible":       "visible",
		},
		SearchColumns: []string{"name", "address", "description"},
		SortColumns: map[string]string{
			"name": "name", "rooms": "rooms", "status": "status",
			"createdAt": "created_at", "updatedAt": "updated_at",
		},
		SlugColumn: "slug",
	}
}

// NewPostgresRepository returns a Repository over the accommodations table.
func NewPostgresRepository(conn db.DBTX) Repository {
	return pgmodel.New(conn, table())
}

// NewMemoryRepository returns an in-process Repository.
func NewMemoryRepository() Repository {
	return crud.NewMemoryModel(clone,
		crud.WithMatch(match),
		crud.WithSortKey("name", func(a, b *Accommodation) bool { return a.Name < b.Name }),
		crud.WithSortKey("rooms", func(a, b *Accommodation) bool { return a.Rooms < b.Rooms }),
		crud.WithSortKey("status", func(a, b *Accommodation) bool { return a.Status < b.Status }),
	)
}

func match(a *Accommodation, q crud.Query) bool {
	if v, ok := q.Filter("destinationId"); ok && (a.DestinationID == nil || *a.DestinationID != v) {
		return false
	}
	if v, ok := q.Filter("ownerId"); ok && a.OwnerID != v {
		return false
	}
	if v, ok := q.Filter("kind"); ok && a.Kind != v {
		return false
	}
	if v, ok := q.Filter("status"); ok && a.Status != v {
		return false
	}
	if v, ok := q.Filter("visible"); ok && a.Visible != v {
		return false
	}
	return crud.ContainsFold(q.Search, a.Name, a.Address, a.Description)
}
