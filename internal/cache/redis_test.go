package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Frannkode/QuickOrder/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "a", Name: "Tumbler", PriceRetail: 500, PriceWholesale: 400, WholesaleThreshold: 10, Stock: 20},
		{ID: "b", Name: "Thermos", PriceRetail: 1000, PriceWholesale: 900, WholesaleThreshold: 5, Stock: 8},
	}
}

func TestGet_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_Hit(t *testing.T) {
	cache, mr := setupTestRedis(t)

	data, err := json.Marshal(sampleProducts())
	require.NoError(t, err)
	require.NoError(t, mr.Set(catalogKey, string(data)))

	got, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), got)
}

func TestSet_ThenGet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleProducts()))
	assert.True(t, mr.Exists(catalogKey))

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), got)
}

func TestDelete_Invalidates(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sampleProducts()))
	require.NoError(t, cache.Delete(ctx))

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_CorruptPayload(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(catalogKey, "not json"))
	_, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
