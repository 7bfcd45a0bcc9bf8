package posts

import (
	"github.com/tourhub/tourhub/internal/crud"
	"github.com/tourhub/tourhub/internal/crud/pgmodel"
	"github.com/tourhub/tourhub/internal/platform/db"
)

// Repository is the storage contract for posts.
type Repository interface {
	crud.Model[*Post]
	crud.SlugChecker
}

func table() pgmodel.Table[*Post] {
	return pgmodel.Table[*Post]{
		Name:    "posts",
		Columns: []string{"title", "slug", "author_id", "excerpt", "body", "tags", "status", "published_at"},
		New:     func() *Post { return &Post{} },
		Values: func(p *Post) []any {
			return []any{p.Title, p.Slug, p.AuthorID, p.Excerpt, p.Body, p.Tags, p.Status, p.PublishedAt}
		},
		Targets: func(p *Post) []any {
			return []any{&p.Title, &p.Slug, &p.AuthorID, &p.Excerpt, &p.Body, &p.Tags, &p.Status, &p.PublishedAt}
		},
		Filters:       map[string]string{"authorId": "author_id", "status": "status"},
		SearchColumns: []string{"title", "excerpt", "body"},
		SortColumns: map[string]string{
			"title": "title", "publishedAt": "published_at",
			"createdAt": "created_at", "updatedAt": "updated_at",
		},
		SlugColumn: "slug",
	}
}

// NewPostgresRepository returns a Repository over the posts table.
func NewPostgresRepository(conn db.DBTX) Repository {
	return pgmodel.New(conn, table())
}

// NewMemoryRepository returns an in-process Repository.
func NewMemoryRepository() Repository {
	return crud.NewMemoryModel(clone,
		crud.WithMatch(match),
		crud.WithSortKey("title", func(a, b *Post) bool { return a.Title < b.Title }),
		crud.WithSortKey("publishedAt", func(a, b *Post) bool {
			if a.PublishedAt == nil || b.PublishedAt == nil {
				return a.PublishedAt == nil && b.PublishedAt != nil
			}
			return a.PublishedAt.Before(*b.PublishedAt)
		}),
	)
}

func match(p *Post, q crud.Query) bool {
	if v, ok := q.Filter("authorId"); ok && p.AuthorID != v {
		return false
	}
	if v, ok := q.Filter("status"); ok && p.Status != v {
		return false
	}
	return crud.ContainsFold(q.Search, p.Title, p.Excerpt, p.Body)
}
