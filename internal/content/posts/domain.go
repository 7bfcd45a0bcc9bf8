package posts

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/crud"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

// Post is an editorial article such as a travel guide.
type Post struct {
	crud.Base
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	AuthorID    uuid.UUID  `json:"authorId"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	Tags        []string   `json:"tags"`
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func (p *Post) GetSlug() string  { return p.Slug }
func (p *Post) SetSlug(s string) { p.Slug = s }

func author(p *Post) uuid.UUID { return p.AuthorID }

func clone(p *Post) *Post {
	out := *p
	out.Base = p.Base.CopyBase()
	out.Tags = slices.Clone(p.Tags)
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		out.PublishedAt = &at
	}
	return &out
}

// CreateInput is the payload for writing a post. The creating actor becomes
// the author.
type CreateInput struct {
	Title   string   `json:"title" validate:"required,notblank,max=200"`
	Excerpt string   `json:"excerpt" validate:"max=500"`
	Body    string   `json:"body" validate:"required,notblank,max=100000"`
	Tags    []string `json:"tags" validate:"max=10,dive,required,max=40"`
	Status  Status   `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

// SlugSource implements crud.Named.
func (in CreateInput) SlugSource() string { return in.Title }

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Excerpt *string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Body    *string   `json:"body,omitempty" validate:"omitempty,notblank,max=100000"`
	Tags    *[]string `json:"tags,omitempty" validate:"omitempty,max=10,dive,required,max=40"`
	Status  *Status   `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

// VisibilityInput mirrors the accommodation visibility payload.
type VisibilityInput struct {
	Visible *bool `json:"visible" validate:"required"`
}

// SearchInput filters posts.
type SearchInput struct {
	crud.ListParams
	Q        string     `json:"q" validate:"max=100"`
	AuthorID *uuid.UUID `json:"authorId,omitempty"`
	Status   Status     `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

// ToQuery implements crud.Searcher.
func (in SearchInput) ToQuery() crud.Query {
	q := in.ListParams.ToQuery()
	q.Search = in.Q
	q.Filters = map[string]any{}
	if in.AuthorID != nil {
		q.Filters["authorId"] = *in.AuthorID
	}
	if in.Status != "" {
		q.Filters["status"] = in.Status
	}
	return q
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

func newPost(authorID uuid.UUID, in CreateInput) *Post {
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	return &Post{
		Title:    strings.TrimSpace(in.Title),
		AuthorID: authorID,
		Excerpt:  in.Excerpt,
		Body:     in.Body,
		Tags:     normalizeTags(in.Tags),
		Status:   status,
	}
}

func apply(p *Post, in UpdateInput) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Body != nil {
		p.Body = *in.Body
	}
	if in.Tags != nil {
		p.Tags = normalizeTags(*in.Tags)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
}
