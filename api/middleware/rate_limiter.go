// api/middleware/rate_limiter.go
package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter decides whether another request from key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimiter is a per-process sliding-window limiter.
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.window)

	// Remove old timestamps outside the window
	filteredRequests := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			filteredRequests = append(filteredRequests, t)
		}
	}

	if len(filteredRequests) >= rl.limit {
		rl.requests[key] = filteredRequests
		return false
	}

	rl.requests[key] = append(filteredRequests, now)
	return true
}

// RedisRateLimiter is a fixed-window limiter shared by every server
// instance using the same Redis.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, prefix: "ratelimit:"}
}

// Allow counts the request in the current window. Redis errors let the
// request through.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	redisKey := rl.prefix + key
	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		customLog.Warnf("RateLimiter: Redis INCR failed, allowing request: %v", err)
		return true
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			customLog.Warnf("RateLimiter: Redis EXPIRE failed for %s: %v", redisKey, err)
		}
	}
	return count <= int64(rl.limit)
}

// NewLimiter returns a Redis-backed limiter when client is set and an
// in-process one otherwise.
func NewLimiter(client *redis.Client, limit int, window time.Duration) Limiter {
	if client != nil {
		return NewRedisRateLimiter(client, limit, window)
	}
	return NewRateLimiter(limit, window)
}

func getIP(c *gin.Context) string {
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.ClientIP()
	}
	return ip
}

func RateLimitMiddleware(rl Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getIP(c)
		if !rl.Allow(c.Request.Context(), ip) {
			customLog.Warnf("RateLimiter: Too many requests from %s to %s", ip, c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please wait."})
			return
		}
		c.Next()
	}
}
