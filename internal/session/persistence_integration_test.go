//go:build integration

package session

import (
	"context"
	"os"
	"testing"
	"time"

	"example.com/mastermind/internal/game"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, rdb.Ping(ctx).Err(), "redis is not reachable")
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisPersistence_CreatePlayRestore(t *testing.T) {
	ctx := context.Background()
	rdb := newRedisClient(t)
	require.NoError(t, rdb.FlushDB(ctx).Err())

	persist := NewRedisStore(rdb, time.Hour)
	cfg := ServiceConfig{Persist: persist, Secrets: game.FixedSecret(testSecret)}

	svc1 := NewService(cfg)
	sess, err := svc1.Create(ctx, "alice")
	require.NoError(t, err)

	_, _, err = sess.Confirm(ctx, []string{"black", "red", "yellow", "green"})
	require.NoError(t, err)
	_, _, err = sess.Confirm(ctx, []string{"black", "red", "purple", "blue"})
	require.NoError(t, err)

	// restart: fresh service, empty cache
	svc2 := NewService(cfg)
	restored, ok, err := svc2.GetOrLoad(ctx, sess.ID())
	require.NoError(t, err)
	require.True(t, ok)

	st := restored.State()
	require.Equal(t, game.Won, st.State)
	require.Len(t, st.History, 2)
	require.Equal(t, testSecret, st.Secret)

	ttl, err := rdb.TTL(ctx, persist.key(sess.ID())).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}

func TestRedisPersistence_Missing(t *testing.T) {
	ctx := context.Background()
	rdb := newRedisClient(t)

	_, ok, err := NewRedisStore(rdb, time.Hour).Load(ctx, "does-not-exist")
	require.NoError(t, err)
	require.False(t, ok)
}
