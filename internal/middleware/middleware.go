package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// staleAfter is how long an idle client entry is kept before pruning.
const staleAfter = 10 * time.Minute

// RateLimiter enforces a minimum interval between requests per caller.
// Callers are identified by the X-Client-ID header, falling back to the
// remote IP.
type RateLimiter struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	limit    time.Duration
}

func NewRateLimiter(limit time.Duration) *RateLimiter {
	return &RateLimiter{
		lastSeen: make(map[string]time.Time),
		limit:    limit,
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetHeader("X-Client-ID")
		if caller == "" {
			caller = c.ClientIP()
		}

		r.mu.Lock()
		now := time.Now()
		last, seen := r.lastSeen[caller]
		if seen && now.Sub(last) < r.limit {
			r.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		r.lastSeen[caller] = now
		r.prune(now)
		r.mu.Unlock()

		c.Next()
	}
}

// prune drops idle entries so the map does not grow with one-off callers.
// Called with the lock held.
func (r *RateLimiter) prune(now time.Time) {
	if len(r.lastSeen) < 1024 {
		return
	}
	for caller, last := range r.lastSeen {
		if now.Sub(last) > staleAfter {
			delete(r.lastSeen, caller)
		}
	}
}
