package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/tourhub/tourhub/internal/authz"
)

type tokenStore interface {
	Issue(ctx context.Context, actor *authz.Actor) (string, error)
	Revoke(ctx context.Context, token string) error
}

// TokensCLI issues and revokes actor bearer tokens for operators.
type TokensCLI struct {
	store tokenStore
}

// NewTokensCLI wraps an actor store.
func NewTokensCLI(store *authz.ActorStore) *TokensCLI {
	return &TokensCLI{store: store}
}

type issuedToken struct {
	Token       string             `json:"token"`
	ActorID     string             `json:"actorId"`
	Role        authz.Role         `json:"role"`
	Permissions []authz.Permission `json:"permissions"`
}

// Command runs "issue" or "revoke" and returns the exit code.
func (c *TokensCLI) Command(ctx context.Context, args []string, opts CommandOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if len(args) == 0 {
		_, _ = fmt.Fprintln(opts.Stderr, "usage: token <issue|revoke> [flags]")
		return 2
	}

	switch args[0] {
	case "issue":
		return c.issue(ctx, args[1:], opts)
	case "revoke":
		if len(args) != 2 {
			_, _ = fmt.Fprintln(opts.Stderr, "token revoke: exactly one token is required")
			return 2
		}
		if err := c.store.Revoke(ctx, args[1]); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "token revoke: %v\n", err)
			return 1
		}
		return 0
	default:
		_, _ = fmt.Fprintf(opts.Stderr, "token: unknown command %q\n", args[0])
		return 2
	}
}

func (c *TokensCLI) issue(ctx context.Context, args []string, opts CommandOptions) int {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	rawID := fs.String("id", "", "actor id, generated when empty")
	role := fs.String("role", string(authz.RoleUser), "actor role")
	perms := fs.String("perms", "", "comma separated permissions")
	scopes := fs.String("scopes", "", "permission presets: listings, content")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	id := uuid.New()
	if *rawID != "" {
		parsed, err := uuid.Parse(*rawID)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "token issue: invalid id %q\n", *rawID)
			return 2
		}
		id = parsed
	}

	var granted []authz.Permission
	for _, scope := range splitList(*scopes) {
		switch scope {
		case "listings":
			granted = append(granted, authz.ListingScopes()...)
		case "content":
			granted = append(granted, authz.ContentScopes()...)
		default:
			_, _ = fmt.Fprintf(opts.Stderr, "token issue: unknown scope %q\n", scope)
			return 2
		}
	}
	for _, p := range splitList(*perms) {
		granted = append(granted, authz.Permission(p))
	}

	actor := authz.NewActor(id, authz.Role(strings.ToUpper(*role)), granted...)
	token, err := c.store.Issue(ctx, actor)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "token issue: %v\n", err)
		return 1
	}
	return writeJSON(opts, "token issue", issuedToken{
		Token:       token,
		ActorID:     actor.ID.String(),
		Role:        actor.Role,
		Permissions: actor.Permissions.Slice(),
	})
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
