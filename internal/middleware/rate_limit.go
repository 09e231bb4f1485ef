// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ratepoint/storeratings-backend/internal/utils"
)

// Idle clients are evicted so the map does not grow unbounded.
const (
	sweepInterval = 2 * time.Minute
	clientIdleTTL = 5 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter tracks a token bucket per client IP.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	rl := &IPRateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
	}
	go rl.sweep()
	return rl
}

func (rl *IPRateLimiter) sweep() {
	for range time.Tick(sweepInterval) {
		rl.mu.Lock()
		for ip, cl := range rl.clients {
			if time.Since(cl.lastSeen) > clientIdleTTL {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"too many requests, slow down", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Shared limiters. Auth and upload endpoints get much tighter budgets
// than general browsing: login is a brute-force target and uploads are
// expensive.
var (
	generalLimiter = NewIPRateLimiter(rate.Limit(15), 30)
	authLimiter    = NewIPRateLimiter(rate.Every(12*time.Second), 6)
	uploadLimiter  = NewIPRateLimiter(rate.Every(10*time.Second), 5)
)

func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.Middleware()
}

func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.Middleware()
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.Middleware()
}
