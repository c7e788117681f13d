package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/shared/server/respond"
)

// RateLimit applies a fixed-window per-user limit to the wrapped routes.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	type bucket struct {
		count   int
		resetAt time.Time
	}

	var mu sync.Mutex
	buckets := make(map[string]*bucket)

	return func(c *gin.Context) {
		key := UserIDFromContext(c)
		if key == "" {
			key = c.ClientIP()
		}

		now := time.Now()
		mu.Lock()
		b, ok := buckets[key]
		if !ok || now.After(b.resetAt) {
			b = &bucket{resetAt: now.Add(window)}
			buckets[key] = b
		}
		b.count++
		exceeded := b.count > limit
		retryAfter := time.Until(b.resetAt)
		mu.Unlock()

		if exceeded {
			secs := int(retryAfter.Seconds())
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
			return
		}

		c.Next()
	}
}
