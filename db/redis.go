package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"crashsim/config"

	"github.com/redis/go-redis/v9"
)

var (
	// RedisClient is the global Redis client instance. Nil disables caching.
	RedisClient *redis.Client
)

// InitRedis initializes the Redis client connection
func InitRedis(cfg *config.Config) error {
	log.Println("🔌 Connecting to Redis...")

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisURL,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	RedisClient = client
	log.Printf("✅ Redis connected successfully - URL: %s", cfg.RedisURL)
	return nil
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		log.Println("🔌 Closing Redis connection...")
		return RedisClient.Close()
	}
	return nil
}

/* =========================
   SIMULATION RESULT CACHE
   Redis Key: sim:run:{hash} -> JSON result
========================= */

// ErrCorruptCachedRun is returned for a cached run that does not decode
// into the requested type.
var ErrCorruptCachedRun = errors.New("cached run does not decode")

// SimulationCacheKey is the Redis key of a cached run with the given
// request hash.
func SimulationCacheKey(hash string) string {
	return fmt.Sprintf(config.RedisSimulationKey, hash)
}

// StoreCachedRun stores a JSON-encodable run result under hash for ttl.
// Without Redis it does nothing.
func StoreCachedRun(ctx context.Context, hash string, result any, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cached run: %w", err)
	}

	if err := RedisClient.Set(ctx, SimulationCacheKey(hash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cached run: %w", err)
	}
	return nil
}

// GetCachedRun decodes the run cached under hash into dst.
// It reports false when there is no entry or no Redis.
func GetCachedRun(ctx context.Context, hash string, dst any) (bool, error) {
	if RedisClient == nil {
		return false, nil
	}

	data, err := RedisClient.Get(ctx, SimulationCacheKey(hash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cached run: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptCachedRun, err)
	}
	return true, nil
}

// DeleteCachedRun removes a cached run, e.g. one that no longer decodes.
func DeleteCachedRun(ctx context.Context, hash string) error {
	if RedisClient == nil {
		return nil
	}
	if err := RedisClient.Del(ctx, SimulationCacheKey(hash)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached run: %w", err)
	}
	return nil
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheck performs a Redis health check
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}
