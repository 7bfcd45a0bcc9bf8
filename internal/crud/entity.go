// Package crud composes authorization, validation, lifecycle rules and slug
// allocation into the standard entity operations shared by every service.
package crud

import (
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/lifecycle"
)

// AdminInfo holds back-office annotations that are never shown publicly.
type AdminInfo struct {
	Notes    string `json:"notes,omitempty"`
	Favorite bool   `json:"favorite,omitempty"`
}

// Base carries identity, audit and lifecycle fields. Entities embed it.
type Base struct {
	ID          uuid.UUID  `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CreatedByID uuid.UUID  `json:"createdById"`
	UpdatedByID uuid.UUID  `json:"updatedById"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	DeletedByID *uuid.UUID `json:"deletedById,omitempty"`
	AdminInfo   *AdminInfo `json:"adminInfo,omitempty"`
}

// Audit exposes the embedded Base to the generic service.
func (b *Base) Audit() *Base {
	return b
}

// State derives the lifecycle state from the deletion stamp.
func (b *Base) State() lifecycle.State {
	return lifecycle.StateOf(b.DeletedAt)
}

// CopyBase returns a deep copy of b, used by clone functions of in-memory models.
func (b Base) CopyBase() Base {
	out := b
	if b.DeletedAt != nil {
		at := *b.DeletedAt
		out.DeletedAt = &at
	}
	if b.DeletedByID != nil {
		by := *b.DeletedByID
		out.DeletedByID = &by
	}
	if b.AdminInfo != nil {
		info := *b.AdminInfo
		out.AdminInfo = &info
	}
	return out
}

func (b *Base) stampCreated(actor *authz.Actor, now time.Time) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	b.CreatedByID = actor.ID
	b.UpdatedByID = actor.ID
	b.DeletedAt = nil
	b.DeletedByID = nil
}

func (b *Base) stampUpdated(actor *authz.Actor, now time.Time) {
	b.UpdatedAt = now
	b.UpdatedByID = actor.ID
}

func (b *Base) markDeleted(actor *authz.Actor, now time.Time) {
	stamp := lifecycle.Stamp(actor.ID, now)
	b.DeletedAt = stamp.DeletedAt
	b.DeletedByID = stamp.DeletedByID
	b.stampUpdated(actor, now)
}

func (b *Base) clearDeleted(actor *authz.Actor, now time.Time) {
	b.DeletedAt = nil
	b.DeletedByID = nil
	b.stampUpdated(actor, now)
}

// Entity is satisfied by pointers to structs embedding Base.
type Entity interface {
	comparable
	Audit() *Base
}

// Named is implemented by create inputs whose entity carries a slug.
type Named interface {
	SlugSource() string
}

// Sluggable is implemented by entities with a unique slug.
type Sluggable interface {
	GetSlug() string
	SetSlug(string)
}
