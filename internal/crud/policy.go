package crud

import (
	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/shared"
)

// Operation names a guarded service verb.
type Operation string

const (
	OpCreate      Operation = "create"
	OpView        Operation = "view"
	OpList        Operation = "list"
	OpSearch      Operation = "search"
	OpCount       Operation = "count"
	OpUpdate      Operation = "update"
	OpDelete      Operation = "delete"
	OpRestore     Operation = "restore"
	OpHardDelete  Operation = "hardDelete"
	OpViewDeleted Operation = "viewDeleted"
)

// Policy maps each supported operation to the permission it requires.
// Operations missing from the policy are NOT_IMPLEMENTED.
type Policy map[Operation]authz.Permission

// Permission returns the token required for op.
func (p Policy) Permission(op Operation) (authz.Permission, bool) {
	perm, ok := p[op]
	return perm, ok
}

// Authorizer decides whether an actor may run an operation. Check runs before
// any I/O; CheckEntity runs after the target entity is loaded.
type Authorizer[T Entity] interface {
	Check(actor *authz.Actor, op Operation) error
	CheckEntity(actor *authz.Actor, op Operation, entity T) error
}

// PolicyAuthorizer authorizes purely from a Policy.
type PolicyAuthorizer[T Entity] struct {
	Policy Policy
}

// Check implements Authorizer.
func (a PolicyAuthorizer[T]) Check(actor *authz.Actor, op Operation) error {
	perm, ok := a.Policy.Permission(op)
	if !ok {
		return shared.NotImplemented(string(op))
	}
	return authz.Authorize(actor, perm)
}

// CheckEntity implements Authorizer. The policy has no entity predicates.
func (a PolicyAuthorizer[T]) CheckEntity(*authz.Actor, Operation, T) error {
	return nil
}

// OwnerRule lets holders of Own run Op on entities they own.
type OwnerRule[T Entity] struct {
	Op    Operation
	Own   authz.Permission
	Owner func(T) uuid.UUID
}

// OwnerAuthorizer extends a Policy with owner-only grants.
type OwnerAuthorizer[T Entity] struct {
	Policy Policy
	Rules  []OwnerRule[T]
}

// Check passes holders of the owner token through to CheckEntity.
func (a OwnerAuthorizer[T]) Check(actor *authz.Actor, op Operation) error {
	err := PolicyAuthorizer[T]{Policy: a.Policy}.Check(actor, op)
	if err == nil || shared.CodeOf(err) != shared.CodeForbidden || !actor.Identified() {
		return err
	}
	if rule, ok := a.rule(op); ok && actor.Can(rule.Own) {
		return nil
	}
	return err
}

// CheckEntity requires ownership unless the actor holds the full token.
func (a OwnerAuthorizer[T]) CheckEntity(actor *authz.Actor, op Operation, entity T) error {
	rule, ok := a.rule(op)
	if !ok {
		return nil
	}
	if perm, ok := a.Policy.Permission(op); ok && actor.Can(perm) {
		return nil
	}
	if actor.Can(rule.Own) && rule.Owner(entity) == actor.ID {
		return nil
	}
	return shared.Forbidden("only the owner may " + string(op) + " this entity")
}

func (a OwnerAuthorizer[T]) rule(op Operation) (OwnerRule[T], bool) {
	for _, r := range a.Rules {
		if r.Op == op {
			return r, true
		}
	}
	return OwnerRule[T]{}, false
}
