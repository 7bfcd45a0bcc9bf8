// Package lifecycle holds the ACTIVE / SOFT_DELETED / PURGED state machine
// shared by every entity.
package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/shared"
)

// State is the persistence status of an entity.
type State string

const (
	Active      State = "ACTIVE"
	SoftDeleted State = "SOFT_DELETED"
	Purged      State = "PURGED"
)

// Deletion holds the soft-delete stamps of an entity.
type Deletion struct {
	DeletedAt   *time.Time
	DeletedByID *uuid.UUID
}

// StateOf derives the state from the soft-delete stamp.
func StateOf(deletedAt *time.Time) State {
	if deletedAt != nil {
		return SoftDeleted
	}
	return Active
}

// Transition is the outcome of applying an event to a state.
type Transition struct {
	From    State
	To      State
	Changed bool
}

// SoftDelete moves ACTIVE to SOFT_DELETED. It is a no-op on SOFT_DELETED.
func SoftDelete(from State) (Transition, error) {
	switch from {
	case Active:
		return Transition{From: from, To: SoftDeleted, Changed: true}, nil
	case SoftDeleted:
		return Transition{From: from, To: SoftDeleted}, nil
	default:
		return Transition{From: from, To: from}, notFound(from)
	}
}

// Restore moves SOFT_DELETED to ACTIVE. It is a no-op on ACTIVE.
func Restore(from State) (Transition, error) {
	switch from {
	case SoftDeleted:
		return Transition{From: from, To: Active, Changed: true}, nil
	case Active:
		return Transition{From: from, To: Active}, nil
	default:
		return Transition{From: from, To: from}, notFound(from)
	}
}

// HardDelete moves ACTIVE or SOFT_DELETED to PURGED.
func HardDelete(from State) (Transition, error) {
	switch from {
	case Active, SoftDeleted:
		return Transition{From: from, To: Purged, Changed: true}, nil
	default:
		return Transition{From: from, To: from}, notFound(from)
	}
}

// RequireActive rejects mutations of soft-deleted entities by business
// methods that bypass the standard operations.
func RequireActive(state State) error {
	switch state {
	case Active:
		return nil
	case SoftDeleted:
		return shared.Conflict("entity is soft-deleted; restore it first")
	default:
		return notFound(state)
	}
}

// Stamp returns the deletion stamps for a soft delete by actorID at now.
func Stamp(actorID uuid.UUID, now time.Time) Deletion {
	at := now
	by := actorID
	return Deletion{DeletedAt: &at, DeletedByID: &by}
}

// Visible reports whether an entity in state may be shown to a caller that
// does or does not hold the view-deleted capability.
func Visible(state State, canViewDeleted bool) bool {
	switch state {
	case Active:
		return true
	case SoftDeleted:
		return canViewDeleted
	default:
		return false
	}
}

func notFound(state State) error {
	return shared.NewError(shared.CodeNotFound, "entity is "+string(state))
}
