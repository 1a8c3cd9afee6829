package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis server named by cfg.RedisAddr.
// It returns nil when Redis is not configured or does not answer a ping;
// callers then fall back to in-process rate limiting and skip caching.
func NewRedisClient(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		customLog.Warnf("Redis at %s unreachable, continuing without it: %v", cfg.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	customLog.Printf("Connected to Redis at %s", cfg.RedisAddr)
	return client
}
