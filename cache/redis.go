package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gametracker/models"
)

var RedisClient *redis.Client

// ErrUnavailable is returned by reads when Redis is not connected.
var ErrUnavailable = errors.New("redis not available")

// ErrMiss is returned by reads when the key is absent.
var ErrMiss = errors.New("cache miss")

// InitRedis initializes Redis connection. addr is either host:port or a
// redis:// (rediss://) URL.
func InitRedis(addr, password string) error {
	opts, err := redisOptions(addr, password)
	if err != nil {
		return err
	}
	RedisClient = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		RedisClient.Close()
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func redisOptions(addr, password string) (*redis.Options, error) {
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}
		opts = parsed
	}
	if opts.Password == "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	return opts, nil
}

// CloseRedis closes Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// IsRedisAvailable checks if Redis is connected
func IsRedisAvailable(ctx context.Context) bool {
	if RedisClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return RedisClient.Ping(ctx).Err() == nil
}

// ==================== CACHE KEYS ====================

const (
	GamesCacheKey     = "gametracker:games:all"
	GamesVersionKey   = "gametracker:games:version"
	ReviewsCacheKey   = "gametracker:reviews:all"
	ReviewsVersionKey = "gametracker:reviews:version"
	RateLimitPrefix   = "gametracker:ratelimit:"
)

// ==================== GENERIC CACHE OPERATIONS ====================

// Get retrieves value from cache
func Get(ctx context.Context, key string, dest interface{}) error {
	if RedisClient == nil {
		return ErrUnavailable
	}
	val, err := RedisClient.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// ==================== COLLECTION CACHING ====================

// The raw server shape is cached so normalization still runs once per read
// with the current date.
//
// Every collection has a version counter bumped on invalidation. A reader
// takes the version before fetching upstream and stores its result only if
// the version is unchanged, so a list fetched before a write never lands in
// the cache after that write.

// ErrStale is returned when the collection was invalidated after the version
// was read.
var ErrStale = errors.New("cache entry is stale")

func version(ctx context.Context, versionKey string) (int64, error) {
	if RedisClient == nil {
		return 0, ErrUnavailable
	}
	v, err := RedisClient.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func setIfVersion(ctx context.Context, key, versionKey string, expected int64, value interface{}, ttl time.Duration) error {
	if RedisClient == nil {
		return ErrUnavailable
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	err = RedisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != expected {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

func invalidate(ctx context.Context, key, versionKey string) error {
	if RedisClient == nil {
		return nil
	}
	_, err := RedisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Incr(ctx, versionKey)
		return nil
	})
	return err
}

func GetGames(ctx context.Context) ([]models.RawGame, error) {
	var games []models.RawGame
	err := Get(ctx, GamesCacheKey, &games)
	return games, err
}

// GamesVersion is read before fetching the games upstream.
func GamesVersion(ctx context.Context) (int64, error) {
	return version(ctx, GamesVersionKey)
}

// SetGames caches games fetched at version v. It returns ErrStale when a
// write invalidated the collection in the meantime.
func SetGames(ctx context.Context, games []models.RawGame, v int64, ttl time.Duration) error {
	return setIfVersion(ctx, GamesCacheKey, GamesVersionKey, v, games, ttl)
}

// InvalidateGames drops the cached collection after any game write.
func InvalidateGames(ctx context.Context) error {
	return invalidate(ctx, GamesCacheKey, GamesVersionKey)
}

func GetReviews(ctx context.Context) ([]models.RawReview, error) {
	var reviews []models.RawReview
	err := Get(ctx, ReviewsCacheKey, &reviews)
	return reviews, err
}

func ReviewsVersion(ctx context.Context) (int64, error) {
	return version(ctx, ReviewsVersionKey)
}

func SetReviews(ctx context.Context, reviews []models.RawReview, v int64, ttl time.Duration) error {
	return setIfVersion(ctx, ReviewsCacheKey, ReviewsVersionKey, v, reviews, ttl)
}

func InvalidateReviews(ctx context.Context) error {
	return invalidate(ctx, ReviewsCacheKey, ReviewsVersionKey)
}

// ==================== RATE LIMITING ====================

// CheckRateLimit is a fixed-window counter per client key. It allows the
// request when Redis is unavailable.
func CheckRateLimit(ctx context.Context, client string, maxRequests int, window time.Duration) (bool, int, error) {
	if RedisClient == nil {
		return true, maxRequests, nil
	}
	key := RateLimitPrefix + client

	pipe := RedisClient.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, maxRequests, err
	}

	count := int(incr.Val())
	if count > maxRequests {
		return false, 0, nil
	}
	return true, maxRequests - count, nil
}

// ==================== CACHE STATISTICS ====================

// GetCacheStats reports the key count and the collection versions for the
// health endpoint.
func GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	if RedisClient == nil {
		return nil, ErrUnavailable
	}
	dbSize, err := RedisClient.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}
	gamesVersion, err := GamesVersion(ctx)
	if err != nil {
		return nil, err
	}
	reviewsVersion, err := ReviewsVersion(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"db_size":         dbSize,
		"games_version":   gamesVersion,
		"reviews_version": reviewsVersion,
	}, nil
}
