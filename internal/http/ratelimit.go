package httpx

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds limiter settings for the login endpoints.
type RateLimitConfig struct {
	// Rate is the sustained request rate per client.
	Rate rate.Limit
	// Burst is the number of requests a client may send at once.
	Burst int
	// CleanupInterval controls how often idle client entries are dropped.
	CleanupInterval time.Duration
	// IdleTTL is how long a client entry survives without traffic.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns conservative defaults for auth endpoints.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Rate:            rate.Every(time.Second),
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         15 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies a per-client token bucket keyed on remote address.
// Entries for idle clients are reaped periodically.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	cfg         RateLimitConfig
	lastCleanup time.Time
}

// NewRateLimiter creates a RateLimiter with the given config.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate == 0 {
		cfg = DefaultRateLimitConfig()
	}
	// A zero burst would reject every request; unsanitized configs land here.
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &RateLimiter{
		clients:     make(map[string]*clientLimiter),
		cfg:         cfg,
		lastCleanup: time.Now(),
	}
}

// Middleware returns a middleware enforcing the limit. Over-limit requests
// receive 429 with a Retry-After hint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.allow(key) {
			w.Header().Set("Retry-After", "1")
			WriteError(w, ErrorParams{
				Code:    http.StatusTooManyRequests,
				ErrCode: "rate_limited",
				Err:     errors.New("too many requests"),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastCleanup) > rl.cfg.CleanupInterval {
		rl.cleanupLocked(now)
		rl.lastCleanup = now
	}

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.cfg.Rate, rl.cfg.Burst)}
		rl.clients[key] = cl
	}
	cl.lastAccess = now
	return cl.limiter.Allow()
}

// cleanupLocked drops entries idle longer than IdleTTL. Callers hold rl.mu.
func (rl *RateLimiter) cleanupLocked(now time.Time) {
	for key, cl := range rl.clients {
		if now.Sub(cl.lastAccess) > rl.cfg.IdleTTL {
			delete(rl.clients, key)
		}
	}
}

// clientKey derives the limiter key from the remote address, ignoring the
// port so reconnects share one bucket.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
