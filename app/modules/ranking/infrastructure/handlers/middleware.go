package rankinghandlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// pruneThreshold is the minimum map size before a cleanup pass runs.
	pruneThreshold = 500
	// maxIdleAge is the duration after which an idle client entry may be pruned.
	maxIdleAge = 10 * time.Minute
)

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter rate limits per remote IP, pruning stale entries inline.
type ClientRateLimiter struct {
	clients map[string]*clientEntry
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

// NewClientRateLimiter creates a limiter granting r events per second with
// burst b to each client IP.
func NewClientRateLimiter(r rate.Limit, b int) *ClientRateLimiter {
	return &ClientRateLimiter{
		clients: make(map[string]*clientEntry),
		r:       r,
		b:       b,
	}
}

func (c *ClientRateLimiter) limiterFor(ip string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.clients) > pruneThreshold {
		cutoff := time.Now().Add(-maxIdleAge)
		for k, e := range c.clients {
			if e.lastSeen.Before(cutoff) {
				delete(c.clients, k)
			}
		}
	}

	e, ok := c.clients[ip]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(c.r, c.b)}
		c.clients[ip] = e
	}
	e.lastSeen = time.Now()

	return e.limiter
}

// RateLimit returns a middleware rejecting clients that exceed their budget.
// Round closes and rollovers are heavyweight, so mutating routes sit behind
// this.
func RateLimit(limiter *ClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.limiterFor(ip).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
