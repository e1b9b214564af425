package utils

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP. State is in-process
// and volatile, consistent with the rest of the gateway.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter

	limit rate.Limit
	burst int
}

// NewRateLimiter allows rpm requests per minute per client, with a burst of
// the same size (the limit is about sustained abuse, not short spikes).
func NewRateLimiter(rpm int) *RateLimiter {
	return &RateLimiter{
		clients: map[string]*rate.Limiter{},
		limit:   rate.Limit(float64(rpm) / 60.0),
		burst:   rpm,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.clients[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[key] = l
	}
	return l
}

// Allow reports whether a request from key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

// Middleware rejects over-limit clients with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", time.Now().Add(time.Minute).UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
