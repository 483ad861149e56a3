package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client IP can stay quiet before its token
// bucket is dropped from the pool.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterPool keeps one token bucket per client IP. Buckets idle for longer
// than ttl are swept out on lookup, so the map does not grow with every IP
// the process has ever seen.
type limiterPool struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func newLimiterPool(rps rate.Limit, burst int, ttl time.Duration) *limiterPool {
	return &limiterPool{
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
		entries: make(map[string]*limiterEntry),
	}
}

func (p *limiterPool) get(ip string, now time.Time) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if now.Sub(p.lastSweep) > p.ttl {
		for k, e := range p.entries {
			if now.Sub(e.lastSeen) > p.ttl {
				delete(p.entries, k)
			}
		}
		p.lastSweep = now
	}

	e, ok := p.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (p *limiterPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// RateLimitMiddleware applies a per-client-IP token bucket. Used on the auth
// endpoints to slow down credential stuffing; the rest of the API is
// unlimited.
func RateLimitMiddleware(rps rate.Limit, burst int) gin.HandlerFunc {
	pool := newLimiterPool(rps, burst, limiterIdleTTL)

	return func(c *gin.Context) {
		if !pool.get(c.ClientIP(), time.Now()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
