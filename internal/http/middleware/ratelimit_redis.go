package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"prompt_badges/internal/logger"
	"prompt_badges/internal/metrics"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings. It returns nil when addr is empty or
// Redis is unreachable, so callers fall back to in-process behaviour.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without it", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", "addr", addr)
	return client
}

// RedisRateLimit implements a fixed-window limiter per client IP using INCR/EXPIRE.
// key format: rl:<window_seconds>:<ip>
func RedisRateLimit(client *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return SimpleRateLimit(maxRequests, window)
	}
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		if !allow(c, client, key, maxRequests, window, c.FullPath()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// UserRateLimit limits one action per authenticated user. JWT must run first.
// Without Redis it does nothing.
func UserRateLimit(client *redis.Client, action string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}

		userID := c.GetInt64("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "user_rl:" + action + ":" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		if !allow(c, client, key, maxRequests, window, action) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       action + " rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}
		c.Next()
	}
}

// allow counts one hit for key. Redis errors fail open.
func allow(c *gin.Context, client *redis.Client, key string, maxRequests int, window time.Duration, endpoint string) bool {
	ctx := c.Request.Context()

	val, err := client.Incr(ctx, key).Result()
	if err != nil {
		c.Header("X-RateLimit-Error", "redis-error")
		return true
	}
	if val == 1 {
		client.Expire(ctx, key, window)
	}

	if val > int64(maxRequests) {
		metrics.RLBlocked.WithLabelValues(endpoint).Inc()
		return false
	}
	metrics.RLRequests.WithLabelValues(endpoint).Inc()
	return true
}
