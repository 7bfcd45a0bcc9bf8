package accommodations

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/crud"
)

// Kind classifies a property.
type Kind string

const (
	KindHotel    Kind = "HOTEL"
	KindVilla    Kind = "VILLA"
	KindHostel   Kind = "HOSTEL"
	KindHomestay Kind = "HOMESTAY"
	KindResort   Kind = "RESORT"
)

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Accommodation is a bookable property owned by a host.
type Accommodation struct {
	crud.Base
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	OwnerID        uuid.UUID  `json:"ownerId"`
	DestinationID  *uuid.UUID `json:"destinationId,omitempty"`
	Kind           Kind       `json:"kind"`
	Address        string     `json:"address,omitempty"`
	Rooms          int        `json:"rooms"`
	Description    string     `json:"description,omitempty"`
	Visible        bool       `json:"visible"`
	Status         Status     `json:"status"`
	ModerationNote string     `json:"moderationNote,omitempty"`
}

func (a *Accommodation) GetSlug() string  { return a.Slug }
func (a *Accommodation) SetSlug(s string) { a.Slug = s }

func owner(a *Accommodation) uuid.UUID { return a.OwnerID }

func clone(a *Accommodation) *Accommodation {
	out := *a
	out.Base = a.Base.CopyBase()
	if a.DestinationID != nil {
		id := *a.DestinationID
		out.DestinationID = &id
	}
	return &out
}

// CreateInput is the payload for listing a property. The creating actor
// becomes the owner and the listing starts PENDING and hidden.
type CreateInput struct {
	Name          string     `json:"name" validate:"required,notblank,max=120"`
	DestinationID *uuid.UUID `json:"destinationId,omitempty"`
	Kind          Kind       `json:"kind" validate:"required,oneof=HOTEL VILLA HOSTEL HOMESTAY RESORT"`
	Address       string     `json:"address" validate:"max=250"`
	Rooms         int        `json:"rooms" validate:"gte=1,lte=10000"`
	Description   string     `json:"description" validate:"max=5000"`
}

// SlugSource implements crud.Named.
func (in CreateInput) SlugSource() string { return in.Name }

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	DestinationID *uuid.UUID `json:"destinationId,omitempty"`
	Kind          *Kind      `json:"kind,omitempty" validate:"omitempty,oneof=HOTEL VILLA HOSTEL HOMESTAY RESORT"`
	Address       *string    `json:"address,omitempty" validate:"omitempty,max=250"`
	Rooms         *int       `json:"rooms,omitempty" validate:"omitempty,gte=1,lte=10000"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// VisibilityInput toggles public visibility.
type VisibilityInput struct {
	Visible *bool `json:"visible" validate:"required"`
}

// StatusInput records a moderation decision.
type StatusInput struct {
	Status Status `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
	Note   string `json:"note" validate:"max=500"`
}

// SearchInput filters accommodations.
type SearchInput struct {
	crud.ListParams
	Q             string     `json:"q" validate:"max=100"`
	DestinationID *uuid.UUID `json:"destinationId,omitempty"`
	OwnerID       *uuid.UUID `json:"ownerId,omitempty"`
	Kind          Kind       `json:"kind" validate:"omitempty,oneof=HOTEL VILLA HOSTEL HOMESTAY RESORT"`
	Status        Status     `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Visible       *bool      `json:"visible,omitempty"`
}

// ToQuery implements crud.Searcher.
func (in SearchInput) ToQuery() crud.Query {
	q := in.ListParams.ToQuery()
	q.Search = in.Q
	q.Filters = map[string]any{}
	if in.DestinationID != nil {
		q.Filters["destinationId"] = *in.DestinationID
	}
	if in.OwnerID != nil {
		q.Filters["ownerId"] = *in.OwnerID
	}
	if in.Kind != "" {
		q.Filters["kind"] = in.Kind
	}
	if in.Status != "" {
		q.Filters["status"] = in.Status
	}
	if in.Visible != nil {
		q.Filters["visible"] = *in.Visible
	}
	return q
}

func newAccommodation(ownerID uuid.UUID, in CreateInput) *Accommodation {
	a := &Accommodation{
		Name:        strings.TrimSpace(in.Name),
		OwnerID:     ownerID,
		Kind:        in.Kind,
		Address:     strings.TrimSpace(in.Address),
		Rooms:       in.Rooms,
		Description: in.Description,
		Status:      StatusPending,
	}
	if in.DestinationID != nil {
		id := *in.DestinationID
		a.DestinationID = &id
	}
	return a
}

func apply(a *Accommodation, in UpdateInput) {
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.DestinationID != nil {
		id := *in.DestinationID
		a.DestinationID = &id
	}
	if in.Kind != nil {
		a.Kind = *in.Kind
	}
	if in.Address != nil {
		a.Address = strings.TrimSpace(*in.Address)
	}
	if in.Rooms != nil {
		a.Rooms = *in.Rooms
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
}
