package kv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance and a redis client for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "session", []byte(`{"a":1}`)))
	val, found, err := store.Get(ctx, "session")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"a":1}`, string(val))

	require.NoError(t, store.Set(ctx, "session", []byte(`{"a":2}`)))
	val, _, err = store.Get(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(val))

	require.NoError(t, store.Remove(ctx, "session"))
	_, found, err = store.Get(ctx, "session")
	require.NoError(t, err)
	assert.False(t, found)

	// removing a missing key is not an error
	assert.NoError(t, store.Remove(ctx, "session"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'z'

	got, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisStore(t *testing.T) {
	_, client := setupTestRedis(t)
	exerciseStore(t, NewRedisStoreFromClient(client, "interview"))
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStoreFromClient(client, "interview")

	require.NoError(t, store.Set(context.Background(), "config", []byte("x")))

	assert.True(t, mr.Exists("interview:config"))
	assert.False(t, mr.Exists("config"))
}

func TestNewRedisStoreConnects(t *testing.T) {
	mr, _ := setupTestRedis(t)

	store, err := NewRedisStore(mr.Addr(), "", 0, "")
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = Open(context.Background(), Options{Backend: "etcd"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Options{Backend: BackendRedis})
	assert.Error(t, err, "expected error for empty redis addr")
}
