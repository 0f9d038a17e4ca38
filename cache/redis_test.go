package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/models"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		RedisClient.Close()
		RedisClient = nil
	})
	return mr
}

func TestCacheWithoutRedis(t *testing.T) {
	RedisClient = nil
	ctx := context.Background()

	assert.False(t, IsRedisAvailable(ctx))

	_, err := GetGames(ctx)
	assert.True(t, errors.Is(err, ErrUnavailable))
	_, err = GamesVersion(ctx)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(SetGames(ctx, []models.RawGame{{Nombre: "Hades"}}, 0, time.Minute), ErrUnavailable))
	assert.NoError(t, InvalidateGames(ctx))

	allowed, remaining, err := CheckRateLimit(ctx, "127.0.0.1", 10, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 10, remaining)

	_, err = GetCacheStats(ctx)
	assert.Error(t, err)
}

func TestInitRedisUnreachable(t *testing.T) {
	err := InitRedis("127.0.0.1:1", "")
	assert.Error(t, err)
	assert.Nil(t, RedisClient)
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions("localhost:6379", "secret")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)

	opts, err = redisOptions("redis://:urlpass@cache.internal:6380/2", "envpass")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "urlpass", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 10, opts.PoolSize)

	opts, err = redisOptions("redis://cache.internal:6380", "envpass")
	require.NoError(t, err)
	assert.Equal(t, "envpass", opts.Password)

	_, err = redisOptions("redis://cache.internal:6380/notadb", "")
	assert.Error(t, err)
}

func TestInitRedisWithURL(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, InitRedis("redis://"+mr.Addr()+"/0", ""))
	defer func() {
		CloseRedis()
		RedisClient = nil
	}()
	assert.True(t, IsRedisAvailable(context.Background()))
}

func TestCollectionRoundTrip(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	_, err := GetGames(ctx)
	assert.True(t, errors.Is(err, ErrMiss))

	v, err := GamesVersion(ctx)
	require.NoError(t, err)
	require.NoError(t, SetGames(ctx, []models.RawGame{{Nombre: "Hades"}}, v, time.Minute))

	games, err := GetGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Hades", games[0].Nombre)

	require.NoError(t, InvalidateGames(ctx))
	_, err = GetGames(ctx)
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestStaleListIsNotCachedAfterWrite(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	before, err := ReviewsVersion(ctx)
	require.NoError(t, err)

	// a write lands while the list is being fetched
	require.NoError(t, InvalidateReviews(ctx))

	err = SetReviews(ctx, []models.RawReview{{Juego: "Hades"}}, before, time.Minute)
	assert.True(t, errors.Is(err, ErrStale))
	_, err = GetReviews(ctx)
	assert.True(t, errors.Is(err, ErrMiss))

	after, err := ReviewsVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
	assert.NoError(t, SetReviews(ctx, []models.RawReview{{Juego: "Hades"}}, after, time.Minute))
}

func TestCacheStats(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()
	require.NoError(t, InvalidateGames(ctx))

	stats, err := GetCacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["games_version"])
	assert.Equal(t, int64(0), stats["reviews_version"])
	assert.Equal(t, int64(1), stats["db_size"])
}

func TestCheckRateLimit(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := CheckRateLimit(ctx, "10.0.0.1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, err := CheckRateLimit(ctx, "10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
}
