package authz

import "context"

type actorContextKey struct{}

// ContextWithActor stores the resolved actor for the HTTP handler to pick up.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor stored by ResolveActor. It returns nil
// for anonymous requests.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}
