package authz

import (
	"github.com/tourhub/tourhub/internal/shared"
)

// Authorize passes when the actor is identified and either admin-tier or holds p.
func Authorize(actor *Actor, p Permission) error {
	if !actor.Identified() {
		return shared.Forbidden("actor is required")
	}
	if actor.IsAdmin() || actor.Permissions.Has(p) {
		return nil
	}
	return shared.Forbidden("missing permission " + string(p.Normalize()))
}

// Requirement is a set of tokens evaluated with ANY (default) or ALL semantics.
type Requirement struct {
	Permissions []Permission `json:"permissions"`
	RequireAll  bool         `json:"requireAll,omitempty"`
}

// Any builds an ANY requirement.
func Any(perms ...Permission) Requirement {
	return Requirement{Permissions: perms}
}

// All builds an ALL requirement.
func All(perms ...Permission) Requirement {
	return Requirement{Permissions: perms, RequireAll: true}
}

// Satisfied evaluates the requirement for actor. An empty requirement only
// needs an identified actor.
func (r Requirement) Satisfied(actor *Actor) bool {
	if !actor.Identified() {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	required := normalizePermissions(r.Permissions)
	if r.RequireAll {
		return hasAllPermissions(actor.Permissions, required)
	}
	return hasAnyPermission(actor.Permissions, required)
}

func normalizePermissions(perms []Permission) []Permission {
	unique := make(map[Permission]struct{}, len(perms))
	normalized := make([]Permission, 0, len(perms))
	for _, p := range perms {
		p = p.Normalize()
		if p == "" {
			continue
		}
		if _, seen := unique[p]; seen {
			continue
		}
		unique[p] = struct{}{}
		normalized = append(normalized, p)
	}
	return normalized
}

func hasAnyPermission(granted PermissionSet, required []Permission) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if granted.Has(r) {
			return true
		}
	}
	return false
}

func hasAllPermissions(granted PermissionSet, required []Permission) bool {
	for _, r := range required {
		if !granted.Has(r) {
			return false
		}
	}
	return true
}
