package localstore_test

import (
	"context"
	"os"
	"testing"

	"closet-sync/internal/localstore"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store localstore.Store) {
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v1"))
	require.NoError(t, store.Set(ctx, "k", "v2"))

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, localstore.NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, localstore.NewRedisStoreWithClient(client, "test:"+uuid.NewString()+":"))
}

func TestKeys_NamespacedPerUser(t *testing.T) {
	alice := localstore.KeysFor("alice")
	bob := localstore.KeysFor("bob")

	assert.Equal(t, "closet:alice:generated-avatar", alice.GeneratedAvatar())
	assert.Equal(t, "closet:alice:last-generated-outfit", alice.LastGeneratedOutfit())
	assert.Equal(t, "closet:alice:refresh-outfits", alice.RefreshOutfits())

	assert.NotEqual(t, alice.GeneratedAvatar(), bob.GeneratedAvatar())
	assert.NotEqual(t, alice.RefreshOutfits(), bob.RefreshOutfits())
}

func TestKeys_SharedDeviceIsolation(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()

	require.NoError(t, store.Set(ctx, localstore.KeysFor("alice").GeneratedAvatar(), "https://img/alice.png"))

	_, ok, err := store.Get(ctx, localstore.KeysFor("bob").GeneratedAvatar())
	require.NoError(t, err)
	assert.False(t, ok, "second account must not see the first account's overlay")
}

func TestKeys_EmptyUser(t *testing.T) {
	assert.Equal(t, "closet:anonymous:refresh-outfits", localstore.KeysFor("").RefreshOutfits())
}
