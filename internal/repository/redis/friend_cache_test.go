package redis_test

import (
	"context"
	"testing"
	"time"

	"Fundingift/internal/model"
	"Fundingift/internal/repository/redis"
	"Fundingift/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fill 读版本后立即回填，对应没有并发写的情况
func fill(t *testing.T, cache *redis.FriendCacheRepository, key model.FriendKey, st redis.EdgeState) {
	t.Helper()
	ctx := context.Background()
	ver, err := cache.Version(ctx, key)
	require.NoError(t, err)
	ok, err := cache.Fill(ctx, key, st, ver)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFriendCache_FillGetInvalidate(t *testing.T) {
	mr, rdb := testutil.SetupRedis(t)
	cache := redis.NewFriendCacheRepository(rdb, time.Minute)
	ctx := context.Background()
	ab := model.FriendKey{From: 1, To: 2}

	_, hit, err := cache.Get(ctx, ab)
	require.NoError(t, err)
	assert.False(t, hit)

	fill(t, cache, ab, redis.EdgeFavorite)
	fill(t, cache, ab.Reverse(), redis.EdgeFriend)
	st, hit, err := cache.Get(ctx, ab)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, redis.EdgeFavorite, st)
	assert.Equal(t, time.Minute, mr.TTL("friend:edge:1:2"))

	require.NoError(t, cache.Invalidate(ctx, ab))
	_, hit, err = cache.Get(ctx, ab)
	require.NoError(t, err)
	assert.False(t, hit)
	ver, err := cache.Version(ctx, ab)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	st, hit, err = cache.Get(ctx, ab.Reverse())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, redis.EdgeFriend, st)
}

func TestFriendCache_FillWithStaleVersionIsDropped(t *testing.T) {
	mr, rdb := testutil.SetupRedis(t)
	cache := redis.NewFriendCacheRepository(rdb, time.Minute)
	ctx := context.Background()
	key := model.FriendKey{From: 3, To: 4}

	ver, err := cache.Version(ctx, key)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, key))

	ok, err := cache.Fill(ctx, key, redis.EdgeFavorite, ver)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("friend:edge:3:4"))

	fill(t, cache, key, redis.EdgeFriend)
	st, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, redis.EdgeFriend, st)
}

func TestFriendCache_TTLIsPerEdge(t *testing.T) {
	mr, rdb := testutil.SetupRedis(t)
	cache := redis.NewFriendCacheRepository(rdb, time.Minute)
	ctx := context.Background()
	first := model.FriendKey{From: 5, To: 6}
	second := model.FriendKey{From: 5, To: 7}

	fill(t, cache, first, redis.EdgeFavorite)
	mr.FastForward(40 * time.Second)
	fill(t, cache, second, redis.EdgeFriend)
	mr.FastForward(30 * time.Second)

	_, hit, err := cache.Get(ctx, first)
	require.NoError(t, err)
	assert.False(t, hit, "filling a sibling edge must not extend this one")
	_, hit, err = cache.Get(ctx, second)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestFriendCache_NilClientIsNoop(t *testing.T) {
	cache := redis.NewFriendCacheRepository(nil, 0)
	ctx := context.Background()
	key := model.FriendKey{From: 1, To: 2}

	ok, err := cache.Fill(ctx, key, redis.EdgeFriend, 0)
	assert.NoError(t, err)
	assert.False(t, ok)
	_, hit, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cache.Invalidate(ctx, key))
}

func TestEdgeStateOf(t *testing.T) {
	assert.Equal(t, redis.EdgeAbsent, redis.EdgeStateOf(nil))
	assert.Equal(t, redis.EdgeFriend, redis.EdgeStateOf(&model.Friend{}))
	assert.Equal(t, redis.EdgeFavorite, redis.EdgeStateOf(&model.Friend{IsFavorite: true}))
}
