package destinations

import (
	"strings"

	"github.com/tourhub/tourhub/internal/crud"
)

// Destination is a city, island or region travellers can browse.
type Destination struct {
	crud.Base
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Country     string `json:"country"`
	Region      string `json:"region,omitempty"`
	Description string `json:"description,omitempty"`
	Featured    bool   `json:"featured"`
}

func (d *Destination) GetSlug() string  { return d.Slug }
func (d *Destination) SetSlug(s string) { d.Slug = s }

func clone(d *Destination) *Destination {
	out := *d
	out.Base = d.Base.CopyBase()
	return &out
}

// CreateInput is the payload for creating a destination.
type CreateInput struct {
	Name        string `json:"name" validate:"required,notblank,max=120"`
	Country     string `json:"country" validate:"required,iso3166_1_alpha2"`
	Region      string `json:"region" validate:"max=120"`
	Description string `json:"description" validate:"max=5000"`
	Featured    bool   `json:"featured"`
}

// SlugSource implements crud.Named.
func (in CreateInput) SlugSource() string { return in.Name }

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	Country     *string `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	Region      *string `json:"region,omitempty" validate:"omitempty,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Featured    *bool   `json:"featured,omitempty"`
}

// SearchInput filters destinations.
type SearchInput struct {
	crud.ListParams
	Q        string `json:"q" validate:"max=100"`
	Country  string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Featured *bool  `json:"featured,omitempty"`
}

// ToQuery implements crud.Searcher.
func (in SearchInput) ToQuery() crud.Query {
	q := in.ListParams.ToQuery()
	q.Search = in.Q
	q.Filters = map[string]any{}
	if in.Country != "" {
		q.Filters["country"] = strings.ToUpper(in.Country)
	}
	if in.Featured != nil {
		q.Filters["featured"] = *in.Featured
	}
	return q
}

func newDestination(in CreateInput) *Destination {
	return &Destination{
		Name:        strings.TrimSpace(in.Name),
		Country:     strings.ToUpper(in.Country),
		Region:      strings.TrimSpace(in.Region),
		Description: in.Description,
		Featured:    in.Featured,
	}
}

func apply(d *Destination, in UpdateInput) {
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Country != nil {
		d.Country = strings.ToUpper(*in.Country)
	}
	if in.Region != nil {
		d.Region = strings.TrimSpace(*in.Region)
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.Featured != nil {
		d.Featured = *in.Featured
	}
}
