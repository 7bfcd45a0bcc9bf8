package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tourhub/tourhub/internal/platform/httpx"
	"github.com/tourhub/tourhub/internal/shared"
)

// Resolver turns a bearer token into an actor.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Actor, error)
}

// Middleware wires actor resolution and route guards for HTTP handlers.
type Middleware struct {
	Resolver Resolver
	Logger   *slog.Logger
}

// ResolveActor attaches the actor named by the Authorization header to the
// request context. Requests without a token, or with an unknown one, continue
// anonymously; services then answer FORBIDDEN.
func (m Middleware) ResolveActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" || m.Resolver == nil {
			next.ServeHTTP(w, r)
			return
		}
		actor, err := m.Resolver.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrUnknownToken) {
				if m.Logger != nil {
					m.Logger.Error("authz resolve actor", slog.Any("error", err))
				}
				httpx.RespondError(w, shared.Internal(err))
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
	})
}

// RequireAny ensures the current actor has at least one of the permissions.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return m.require(Any(perms...))
}

// RequireAll ensures the current actor has every permission.
func (m Middleware) RequireAll(perms ...Permission) func(http.Handler) http.Handler {
	return m.require(All(perms...))
}

func (m Middleware) require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if req.Satisfied(ActorFromContext(r.Context())) {
				next.ServeHTTP(w, r)
				return
			}
			httpx.RespondError(w, shared.Forbidden("missing permission for this route"))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
