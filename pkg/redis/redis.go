package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lederhaus/lederhaus-backend/config"
	"github.com/lederhaus/lederhaus-backend/internal/app/model"
	"github.com/lederhaus/lederhaus-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// StatsTTL bounds how stale a cached rating aggregate may get; mutations
// invalidate eagerly, the TTL is the backstop.
const StatsTTL = 5 * time.Minute

const statsKeyPrefix = "review_stats:"

// Init initializes the Redis connection. When the cache is disabled in
// config the client stays nil and every helper becomes a no-op.
func Init(cfg *config.RedisConfig) error {
	if !cfg.Enabled {
		logger.Info("Redis cache disabled, review stats will be computed per request")
		return nil
	}

	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established")
	return nil
}

// GetClient returns the Redis client instance, nil when the cache is off.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// CacheReviewStats stores a product's rating aggregate.
func CacheReviewStats(ctx context.Context, productID uint, stats model.RatingStats) {
	if client == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}

	key := fmt.Sprintf("%s%d", statsKeyPrefix, productID)
	if err := client.Set(ctx, key, payload, StatsTTL).Err(); err != nil {
		logger.Warn("Failed to cache review stats", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
	}
}

// GetCachedReviewStats returns the cached aggregate and whether it was found.
// Cache errors degrade to a miss.
func GetCachedReviewStats(ctx context.Context, productID uint) (*model.RatingStats, bool) {
	if client == nil {
		return nil, false
	}

	key := fmt.Sprintf("%s%d", statsKeyPrefix, productID)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("Failed to read cached review stats", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, false
	}

	var stats model.RatingStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// InvalidateReviewStats drops the cached aggregate after any mutation of a
// product's reviews.
func InvalidateReviewStats(ctx context.Context, productID uint) {
	if client == nil {
		return
	}

	key := fmt.Sprintf("%s%d", statsKeyPrefix, productID)
	if err := client.Del(ctx, key).Err(); err != nil {
		logger.Warn("Failed to invalidate review stats cache", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
	}
}
