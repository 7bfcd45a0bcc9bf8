package authz

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the coarse tier of an actor.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEditor     Role = "EDITOR"
	RoleHost       Role = "HOST"
	RoleUser       Role = "USER"
	RoleGuest      Role = "GUEST"
)

// IsAdminTier reports whether the role bypasses explicit permission checks.
func (r Role) IsAdminTier() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleHost, RoleUser, RoleGuest:
		return true
	}
	return false
}

// Permission is a capability token such as "accommodation.create".
type Permission string

// Normalize lower-cases and trims the token.
func (p Permission) Normalize() Permission {
	return Permission(strings.TrimSpace(strings.ToLower(string(p))))
}

// PermissionSet is a set of capability tokens.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a normalized set, skipping blanks.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		p = p.Normalize()
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}

// Has reports membership of p.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p.Normalize()]
	return ok
}

// Slice returns the tokens in unspecified order.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

// Actor is the caller identity snapshot resolved per request.
type Actor struct {
	ID          uuid.UUID
	Role        Role
	Permissions PermissionSet
}

// NewActor builds an Actor with the given permissions.
func NewActor(id uuid.UUID, role Role, perms ...Permission) *Actor {
	return &Actor{ID: id, Role: role, Permissions: NewPermissionSet(perms...)}
}

// Identified reports whether the actor can be authorized at all.
func (a *Actor) Identified() bool {
	return a != nil && a.ID != uuid.Nil
}

// IsAdmin reports whether the actor bypasses explicit permission checks.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role.IsAdminTier()
}

// Can reports whether the actor holds p, either explicitly or through an admin-tier role.
func (a *Actor) Can(p Permission) bool {
	if !a.Identified() {
		return false
	}
	if a.IsAdmin() {
		return true
	}
	return a.Permissions.Has(p)
}

// SystemActorID identifies background jobs acting on behalf of the platform.
var SystemActorID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// System returns the actor used by scheduled jobs.
func System() *Actor {
	return &Actor{ID: SystemActorID, Role: RoleSuperAdmin, Permissions: PermissionSet{}}
}
