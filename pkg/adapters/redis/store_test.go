package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/folio/pkg/adapters/redis"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunFormStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sessionID := "session-ttl"

	require.NoError(t, store.Save(ctx, sessionID, domain.NewForm(sessionID)))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, sessionID)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// The index is pruned against the wall clock, not the miniredis clock.
	time.Sleep(1200 * time.Millisecond)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	sessionID := "my-session"

	require.NoError(t, store.Save(ctx, sessionID, domain.NewForm(sessionID)))

	assert.True(t, mr.Exists("custom:app:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, sessionID)
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set("folio:session:bad", "{not json"))
	_, err := store.Load(context.Background(), "bad")
	assert.ErrorContains(t, err, "failed to unmarshal form")
}

func TestRedisStore_Ping(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	assert.NoError(t, store.Ping(context.Background()))
	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestRedisStore_StateIndex(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	f := domain.NewForm("s1")
	f.State = domain.StateSubmitting
	require.NoError(t, store.Save(ctx, "s1", f))
	require.NoError(t, store.Save(ctx, "s2", domain.NewForm("s2")))
	assert.Equal(t, "submitting", mr.HGet("folio:session:state", "s1"))

	// Forms saved before the state hash existed are read from the form itself.
	mr.HDel("folio:session:state", "s2")

	states, err := store.ListStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.SubmissionState{
		"s1": domain.StateSubmitting,
		"s2": domain.StateIdle,
	}, states)

	require.NoError(t, store.Delete(ctx, "s1"))
	assert.Empty(t, mr.HGet("folio:session:state", "s1"))
}

func TestRedisStore_StateIndexPrunedWithSession(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", domain.NewForm("short")))
	assert.Equal(t, "idle", mr.HGet("folio:session:state", "short"))

	mr.FastForward(2 * time.Second)
	time.Sleep(1200 * time.Millisecond)

	states, err := store.ListStates(ctx)
	require.NoError(t, err)
	assert.Empty(t, states)
	assert.Empty(t, mr.HGet("folio:session:state", "short"))
}
