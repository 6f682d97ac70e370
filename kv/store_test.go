package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sessionauth/go-session-core/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behavior every Store implementation must share.
func storeContract(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	require.NoError(t, store.Set(ctx, "k", []byte("v2")))
	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, kv.NewMemory())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	original := []byte("value")
	require.NoError(t, store.Set(ctx, "k", original))
	original[0] = 'X'

	stored, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), stored)
}

func TestFileStore(t *testing.T) {
	storeContract(t, kv.NewFile(filepath.Join(t.TempDir(), "store.json")))
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewFile(filepath.Join(t.TempDir(), "never-written.json"))

	_, err := store.Get(ctx, "anything")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)
	require.NoError(t, store.Delete(ctx, "anything"))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	require.NoError(t, kv.NewFile(path).Set(ctx, "k", []byte("v")))

	value, err := kv.NewFile(path).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisStore(t *testing.T) {
	storeContract(t, kv.NewRedis(newTestRedis(t), "test"))
}

func TestRedisStorePrefixIsolation(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)

	first := kv.NewRedis(client, "a")
	second := kv.NewRedis(client, "b")

	require.NoError(t, first.Set(ctx, "k", []byte("v")))
	_, err := second.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := kv.NewRedis(client, "test")
	mr.Close()

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.ErrorIs(t, store.Set(ctx, "k", []byte("v")), kv.ErrUnavailable)
	assert.ErrorIs(t, store.Delete(ctx, "k"), kv.ErrUnavailable)
}
