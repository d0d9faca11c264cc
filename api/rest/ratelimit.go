package rest

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/openweb3/wallet-core/common/logger"
)

var errTooManyAttempts = errors.New("too many password attempts, try again later")

// RateLimitConfig bounds password attempts per client
type RateLimitConfig struct {
	AttemptsPerMinute int
	BurstSize         int
	BanDuration       time.Duration
}

func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		AttemptsPerMinute: 10,
		BurstSize:         5,
		BanDuration:       60 * time.Second,
	}
}

// clientBucket is a token bucket for one remote host
type clientBucket struct {
	tokens      float64
	lastRefill  time.Time
	bannedUntil time.Time
}

// RateLimiter throttles unlock, create and import by remote host
type RateLimiter struct {
	mu      sync.Mutex
	config  *RateLimitConfig
	clients map[string]*clientBucket
	now     func() time.Time
}

func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	return &RateLimiter{
		config:  config,
		clients: make(map[string]*clientBucket),
		now:     time.Now,
	}
}

// Allow consumes one attempt for client. An empty bucket bans the client.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	b, ok := rl.clients[client]
	if !ok {
		b = &clientBucket{tokens: float64(rl.config.BurstSize), lastRefill: now}
		rl.clients[client] = b
	}

	if now.Before(b.bannedUntil) {
		return false
	}

	refillRate := float64(rl.config.AttemptsPerMinute) / 60
	b.tokens += now.Sub(b.lastRefill).Seconds() * refillRate
	if limit := float64(rl.config.BurstSize); b.tokens > limit {
		b.tokens = limit
	}
	b.lastRefill = now

	if b.tokens < 1 {
		b.bannedUntil = now.Add(rl.config.BanDuration)
		logger.Warn("password attempts exceeded, client banned: ", client)
		return false
	}
	b.tokens--
	return true
}

// IsBanned reports whether client is currently refused
func (rl *RateLimiter) IsBanned(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[client]
	return ok && rl.now().Before(b.bannedUntil)
}

// cleanup drops idle buckets; caller holds mu
func (rl *RateLimiter) cleanup(now time.Time) {
	const staleThreshold = 10 * time.Minute
	for client, b := range rl.clients {
		if now.Sub(b.lastRefill) > staleThreshold && now.After(b.bannedUntil) {
			delete(rl.clients, client)
		}
	}
}

// Middleware refuses requests from throttled clients with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientKey(r)) {
			sendResp(w, http.StatusTooManyRequests, nil, errTooManyAttempts)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
