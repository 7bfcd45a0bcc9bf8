package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type brokenEntropy struct{}

func (brokenEntropy) Read([]byte) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

func TestIssueFailsWithoutEntropy(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewActorStore(client, "test", time.Hour)
	store.random = brokenEntropy{}

	token, err := store.Issue(context.Background(), NewActor(uuid.New(), RoleUser))
	require.ErrorContains(t, err, "generate token")
	require.ErrorContains(t, err, "entropy source unavailable")
	require.Empty(t, token)
	require.Empty(t, mr.Keys())
}
