package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/grocerylist/backend/internal/infrastructure/clients/redis"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, providers.CacheProvider) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisclient.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisAdapter(client)
}

func TestRedisAdapter_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	_, adapter := newTestRedis(t)

	_, err := adapter.Get(ctx, "recipe:abc")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "recipe:abc", []byte(`{"success":true}`), 0))
	got, err := adapter.Get(ctx, "recipe:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, string(got))

	exists, err := adapter.Exists(ctx, "recipe:abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, adapter.Delete(ctx, "recipe:abc"))
	exists, err = adapter.Exists(ctx, "recipe:abc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisAdapter_SetExpiry(t *testing.T) {
	ctx := context.Background()
	mr, adapter := newTestRedis(t)

	require.NoError(t, adapter.Set(ctx, "recipe:ttl", []byte("x"), 60))
	require.NoError(t, adapter.Set(ctx, "recipe:forever", []byte("y"), 0))
	assert.Equal(t, time.Minute, mr.TTL("recipe:ttl"))
	assert.Equal(t, time.Duration(0), mr.TTL("recipe:forever"))

	mr.FastForward(61 * time.Second)

	_, err := adapter.Get(ctx, "recipe:ttl")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
	_, err = adapter.Get(ctx, "recipe:forever")
	assert.NoError(t, err)
}

func TestRedisAdapter_DeletePattern(t *testing.T) {
	ctx := context.Background()
	mr, adapter := newTestRedis(t)

	// More keys than one SCAN batch.
	for i := 0; i < scanBatch*2+50; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("recipe:%d", i), "v"))
	}
	require.NoError(t, mr.Set("completion:1", "keep"))

	require.NoError(t, adapter.DeletePattern(ctx, "recipe:*"))

	assert.Equal(t, []string{"completion:1"}, mr.Keys())
}

func TestRedisAdapter_DeletePatternNoMatches(t *testing.T) {
	mr, adapter := newTestRedis(t)
	require.NoError(t, mr.Set("completion:1", "keep"))

	require.NoError(t, adapter.DeletePattern(context.Background(), "recipe:*"))
	assert.True(t, mr.Exists("completion:1"))
}

func TestRedisAdapter_ServerDown(t *testing.T) {
	mr, adapter := newTestRedis(t)
	mr.Close()

	_, err := adapter.Get(context.Background(), "recipe:abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrCacheMiss)
}
