package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/config"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// IdleTimeout drops a client's limiter after this long without
	// requests. Zero keeps limiters forever.
	IdleTimeout time.Duration
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		IdleTimeout:       10 * time.Minute,
	}
}

// RateLimitFromConfig maps the application rate limit settings
func RateLimitFromConfig(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// Limiter tracks one token bucket per client IP
type Limiter struct {
	cfg       RateLimitConfig
	clients   *xsync.Map[string, *client]
	lastSweep atomic.Int64
	now       func() time.Time
}

// NewLimiter creates a per-IP limiter
func NewLimiter(cfg RateLimitConfig) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		clients: xsync.NewMap[string, *client](),
		now:     time.Now,
	}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

// Allow reports whether ip may make a request now
func (l *Limiter) Allow(ip string) bool {
	now := l.now()
	c, ok := l.clients.Load(ip)
	if !ok {
		c, _ = l.clients.LoadOrStore(ip, &client{
			limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst),
		})
	}
	c.lastSeen.Store(now.UnixNano())
	l.sweep(now)
	return c.limiter.AllowN(now, 1)
}

// Clients returns the number of tracked clients
func (l *Limiter) Clients() int {
	return l.clients.Size()
}

// sweep evicts idle clients at most once per IdleTimeout
func (l *Limiter) sweep(now time.Time) {
	if l.cfg.IdleTimeout <= 0 {
		return
	}
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.cfg.IdleTimeout) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-l.cfg.IdleTimeout).UnixNano()
	l.clients.Range(func(ip string, c *client) bool {
		if c.lastSeen.Load() < cutoff {
			l.clients.Delete(ip)
		}
		return true
	})
}

// Middleware rejects requests over the client's budget with 429
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	return NewLimiter(cfg).Middleware()
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
