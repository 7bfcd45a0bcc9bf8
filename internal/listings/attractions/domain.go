package attractions

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/crud"
)

// Category groups attractions for browsing.
type Category string

const (
	CategoryNature    Category = "NATURE"
	CategoryCulture   Category = "CULTURE"
	CategoryAdventure Category = "ADVENTURE"
	CategoryFood      Category = "FOOD"
	CategoryNightlife Category = "NIGHTLIFE"
)

// Attraction is a place or activity, optionally tied to a destination.
type Attraction struct {
	crud.Base
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	DestinationID *uuid.UUID `json:"destinationId,omitempty"`
	Category      Category   `json:"category"`
	Address       string     `json:"address,omitempty"`
	OpeningHours  string     `json:"openingHours,omitempty"`
	Description   string     `json:"description,omitempty"`
}

func (a *Attraction) GetSlug() string  { return a.Slug }
func (a *Attraction) SetSlug(s string) { a.Slug = s }

func clone(a *Attraction) *Attraction {
	out := *a
	out.Base = a.Base.CopyBase()
	if a.DestinationID != nil {
		id := *a.DestinationID
		out.DestinationID = &id
	}
	return &out
}

// CreateInput is the payload for creating an attraction.
type CreateInput struct {
	Name          string     `json:"name" validate:"required,notblank,max=120"`
	DestinationID *uuid.UUID `json:"destinationId,omitempty"`
	Category      Category   `json:"category" validate:"required,oneof=NATURE CULTURE ADVENTURE FOOD NIGHTLIFE"`
	Address       string     `json:"address" validate:"max=250"`
	OpeningHours  string     `json:"openingHours" validate:"max=120"`
	Description   string     `json:"description" validate:"max=5000"`
}

// SlugSource implements crud.Named.
func (in CreateInput) SlugSource() string { return in.Name }

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	DestinationID *uuid.UUID `json:"destinationId,omitempty"`
	Category      *Category  `json:"category,omitempty" validate:"omitempty,oneof=NATURE CULTURE ADVENTURE FOOD NIGHTLIFE"`
	Address       *string    `json:"address,omitempty" validate:"omitempty,max=250"`
	OpeningHours  *string    `json:"openingHours,omitempty" validate:"omitempty,max=120"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// SearchInput filters attractions.
type SearchInput struct {
	crud.ListParams
	Q             string     `json:"q" validate:"max=100"`
	DestinationID *uuid.UUID `json:"destinationId,omitempty"`
	Category      Category   `json:"category" validate:"omitempty,oneof=NATURE CULTURE ADVENTURE FOOD NIGHTLIFE"`
}

// ToQuery implements crud.Searcher.
func (in SearchInput) ToQuery() crud.Query {
	q := in.ListParams.ToQuery()
	q.Search = in.Q
	q.Filters = map[string]any{}
	if in.DestinationID != nil {
		q.Filters["destinationId"] = *in.DestinationID
	}
	if in.Category != "" {
		q.Filters["category"] = in.Category
	}
	return q
}

func newAttraction(in CreateInput) *Attraction {
	a := &Attraction{
		Name:         strings.TrimSpace(in.Name),
		Category:     in.Category,
		Address:      strings.TrimSpace(in.Address),
		OpeningHours: in.OpeningHours,
		Description:  in.Description,
	}
	if in.DestinationID != nil {
		id := *in.DestinationID
		a.DestinationID = &id
	}
	return a
}

func apply(a *Attraction, in UpdateInput) {
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.DestinationID != nil {
		id := *in.DestinationID
		a.DestinationID = &id
	}
	if in.Category != nil {
		a.Category = *in.Category
	}
	if in.Address != nil {
		a.Address = strings.TrimSpace(*in.Address)
	}
	if in.OpeningHours != nil {
		a.OpeningHours = *in.OpeningHours
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
}
