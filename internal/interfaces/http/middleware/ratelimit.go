package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/erp/automation/internal/interfaces/http/dto"
)

// RateLimiter keeps one token bucket per caller. A bucket holds limit
// tokens and refills at limit per window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*visitor
	limit   int
	rate    rate.Limit
	window  time.Duration
	now     func() time.Time

	stopChan  chan struct{}
	closeOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		clients:  make(map[string]*visitor),
		limit:    limit,
		rate:     rate.Limit(float64(limit) / window.Seconds()),
		window:   window,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.closeOnce.Do(func() { close(rl.stopChan) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			return
		}
	}
}

// cleanup drops callers idle for two windows; their buckets are full again by then
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, v := range rl.clients {
		if now.Sub(v.lastSeen) > rl.window*2 {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) visitor(key string, now time.Time) *visitor {
	v, ok := rl.clients[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.limit)}
		rl.clients[key] = v
	}
	v.lastSeen = now
	return v
}

// Allow checks if a request from the given key should be allowed. When it
// is not, retryAfter is how long until a token is available.
func (rl *RateLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	lim := rl.visitor(key, now).limiter
	if lim.AllowN(now, 1) {
		return true, 0
	}
	r := lim.ReserveN(now, 1)
	retryAfter = r.DelayFrom(now)
	r.CancelAt(now)
	return false, retryAfter
}

// Remaining returns the number of whole tokens left for the given key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.clients[key]
	if !ok {
		return rl.limit
	}
	return max(0, int(v.limiter.TokensAt(rl.now())))
}

// RateLimit returns a rate limiting middleware keyed by host account, or by
// client IP for unauthenticated requests. It must run after the JWT middleware.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		if subject := GetJWTSubject(c); subject != "" {
			return "sub:" + subject
		}
		return "ip:" + c.ClientIP()
	})
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, retryAfter := limiter.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited, "Too many requests. Please try again later.", c.GetString(RequestIDKey)))
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}

// retryAfterSeconds rounds a wait up to whole seconds, ignoring float noise
func retryAfterSeconds(d time.Duration) int {
	return max(1, int(math.Ceil(d.Round(time.Millisecond).Seconds())))
}
