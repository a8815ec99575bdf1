package ratelimit

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per caller in fixed windows backed by Redis.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, max: max, window: window}
}

// Allow increments the counter for key and reports whether the caller is
// still under the limit for the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		l.client.Expire(ctx, bucket, l.window)
	}
	return count <= int64(l.max), nil
}

// Middleware rejects requests over the limit with 429. The authenticated
// user ID is preferred as the key, falling back to the client IP. Redis
// failures let the request through rather than blocking traffic.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-User-ID")
		if key == "" {
			key = c.ClientIP()
		}
		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("Rate limiter error: %v", err)
			c.Next()
			return
		}
		if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
