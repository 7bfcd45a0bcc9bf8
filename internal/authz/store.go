package authz

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrUnknownToken indicates the bearer token does not resolve to an actor.
var ErrUnknownToken = errors.New("authz: unknown token")

// ActorStore maps opaque bearer tokens to actor snapshots in Redis.
type ActorStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	random io.Reader
}

type actorPayload struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// NewActorStore constructs an ActorStore.
func NewActorStore(client *redis.Client, prefix string, ttl time.Duration) *ActorStore {
	if prefix == "" {
		prefix = "tourhub"
	}
	return &ActorStore{client: client, prefix: prefix, ttl: ttl, random: rand.Reader}
}

// Issue stores actor under a fresh token and returns the token.
func (s *ActorStore) Issue(ctx context.Context, actor *Actor) (string, error) {
	if !actor.Identified() {
		return "", errors.New("authz: actor id required")
	}
	if !actor.Role.Valid() {
		return "", errors.New("authz: unknown role " + string(actor.Role))
	}
	payload := actorPayload{ID: actor.ID.String(), Role: string(actor.Role)}
	for _, p := range actor.Permissions.Slice() {
		payload.Permissions = append(payload.Permissions, string(p))
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	token, err := s.generateToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.redisKey(token), data, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve loads the actor for token.
func (s *ActorStore) Resolve(ctx context.Context, token string) (*Actor, error) {
	if token == "" {
		return nil, ErrUnknownToken
	}
	data, err := s.client.Get(ctx, s.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnknownToken
		}
		return nil, err
	}
	var stored actorPayload
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return nil, err
	}
	perms := make([]Permission, 0, len(stored.Permissions))
	for _, p := range stored.Permissions {
		perms = append(perms, Permission(p))
	}
	return NewActor(id, Role(stored.Role), perms...), nil
}

// Revoke deletes token.
func (s *ActorStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (s *ActorStore) redisKey(token string) string {
	return s.prefix + ":actor:" + token
}

func (s *ActorStore) generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", fmt.Errorf("authz: generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
