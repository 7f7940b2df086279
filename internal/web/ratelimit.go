package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

// Limiter implements per-client rate limiting. Buckets of clients idle for
// longer than the idle TTL are evicted.
type Limiter struct {
	limiters     *gocache.Cache
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a token bucket limiter per client key. idleTTL <= 0
// means ten minutes.
func NewLimiter(requestsPerSecond float64, burst int, idleTTL time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	if idleTTL <= 0 {
		idleTTL = defaultLimiterIdleTTL
	}

	return &Limiter{
		limiters:     gocache.New(idleTTL, idleTTL),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Allow checks if a request from key is allowed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// Len is the number of tracked clients, including expired entries not yet
// cleaned up.
func (l *Limiter) Len() int {
	return l.limiters.ItemCount()
}

func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if v, found := l.limiters.Get(key); found {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	}
	// every request pushes the expiry back
	l.limiters.SetDefault(key, limiter)

	return limiter
}

// clientKey is the remote IP without its port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
