package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/haoran-tse/tramcar/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 10,
		Window:      time.Minute,
		KeyPrefix:   "ratelimit",
	}
}

// RateLimit creates a rate limiting middleware using Redis. Each client IP
// gets a fixed window counter; when Redis is unreachable the request is
// allowed through.
func RateLimit(redisClient *redis.Client, config RateLimitConfig, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ip := c.RealIP()
			key := config.KeyPrefix + ":" + ip

			result, err := redisClient.Incr(ctx, key).Result()
			if err != nil {
				log.Error("rate limit redis error", zap.Error(err))
				// Fail open: allow request if Redis is unavailable
				return next(c)
			}

			// Set expiration on first request
			if result == 1 {
				redisClient.Expire(ctx, key, config.Window)
			}

			remaining := config.MaxRequests - int(result)
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, remaining)))
			c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(config.Window).Unix(), 10))

			if result > int64(config.MaxRequests) {
				prometheus.RateLimitedCounter.Inc()
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "Rate limit exceeded",
				})
			}

			return next(c)
		}
	}
}
