package cacheadapter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestRedisAdapter(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	adapter := NewRedis(RedisConfig{Addr: srv.Addr()})
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter, srv
}

func TestRedisSetGetDelete(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newTestRedisAdapter(t)

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), time.Minute))

	val, ok, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), val)

	require.NoError(t, adapter.Delete(ctx, "k"))
	_, ok, err = adapter.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisExistsAgreesWithGet(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newTestRedisAdapter(t)

	exists, err := adapter.Exists(ctx, "absent")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, adapter.SetPersistent(ctx, "k", []byte("v")))
	exists, err = adapter.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestRedisExpiryViaMiniredisClock(t *testing.T) {
	ctx := context.Background()
	adapter, srv := newTestRedisAdapter(t)

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), time.Second))
	srv.FastForward(2 * time.Second)

	_, ok, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}
