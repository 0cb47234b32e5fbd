package storage

import (
	"context"
	"testing"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Hour), mr
}

func TestRedisCache_ReviewMarker(t *testing.T) {
	cache, mr := setupRedisTestCache(t)
	ctx := context.Background()
	key := cache.ReviewMarkerKey("bk-1")
	assert.Equal(t, "review:booking:bk-1", key)

	exists, err := cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.SetMarker(ctx, key))
	exists, err = cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(time.Hour + time.Second)
	exists, err = cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCache_ChefRating(t *testing.T) {
	cache, mr := setupRedisTestCache(t)
	ctx := context.Background()

	_, _, ok, err := cache.ChefRating(ctx, "chef-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.CacheChefRating(ctx, "chef-1", 4.3, 3))
	require.NoError(t, cache.CacheChefRating(ctx, "chef-2", 4.8, 5))

	average, total, ok, err := cache.ChefRating(ctx, "chef-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.3, average)
	assert.Equal(t, 3, total)
	assert.Equal(t, chefRatingTTL, mr.TTL("chef:chef-1:rating"))

	top, err := cache.TopChefs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.Ranked{{ID: "chef-2", Score: 4.8}, {ID: "chef-1", Score: 4.3}}, top)
}

func TestRedisCache_DishOrders(t *testing.T) {
	cache, mr := setupRedisTestCache(t)
	ctx := context.Background()
	day := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)

	require.NoError(t, cache.RecordDishOrders(ctx, day, []domain.LineItem{
		{DishID: "d-1", Quantity: 2},
		{DishID: "d-2", Quantity: 1},
	}))
	require.NoError(t, cache.RecordDishOrders(ctx, day, []domain.LineItem{{DishID: "d-2", Quantity: 3}}))
	assert.True(t, mr.Exists("analytics:daily:2026-05-04:dishes"))

	top, err := cache.TopDishes(ctx, day, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.Ranked{{ID: "d-2", Score: 4}}, top)

	none, err := cache.TopDishes(ctx, day.AddDate(0, 0, 1), 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}
