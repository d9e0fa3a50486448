package restapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/awaikar-syr/departby/internal/clock"
)

// rateLimitClient tracks the limiter and its last usage time so inactive
// clients can be evicted without disrupting active ones.
type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // Unix nanoseconds
}

// RateLimitMiddleware provides per-API-key rate limiting.
type RateLimitMiddleware struct {
	limiters    map[string]*rateLimitClient
	mu          sync.RWMutex
	rateLimit   rate.Limit
	burstSize   int
	cleanupTick *time.Ticker
	exemptKeys  map[string]bool
	stopChan    chan struct{}
	stopOnce    sync.Once
	clock       clock.Clock
}

// NewRateLimitMiddleware creates rate limiting middleware allowing
// ratePerSecond requests per second per API key, with bursts of the same
// size. Exempt keys bypass limiting entirely.
func NewRateLimitMiddleware(ratePerSecond int, exemptKeys []string, c clock.Clock) *RateLimitMiddleware {
	var limit rate.Limit
	if ratePerSecond <= 0 {
		limit = rate.Inf
	} else {
		limit = rate.Every(time.Second / time.Duration(ratePerSecond))
	}

	exemptMap := make(map[string]bool)
	for _, key := range exemptKeys {
		trimmed := strings.TrimSpace(key)
		if trimmed != "" {
			exemptMap[trimmed] = true
		}
	}

	middleware := &RateLimitMiddleware{
		limiters:    make(map[string]*rateLimitClient),
		rateLimit:   limit,
		burstSize:   ratePerSecond,
		cleanupTick: time.NewTicker(5 * time.Minute),
		exemptKeys:  exemptMap,
		stopChan:    make(chan struct{}),
		clock:       c,
	}

	go middleware.cleanup()

	return middleware
}

// Handler returns the HTTP middleware handler function.
func (rl *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Query().Get("key")
			if key == "" {
				key = r.RemoteAddr
			}

			if rl.exemptKeys[key] {
				next.ServeHTTP(w, r)
				return
			}

			if !rl.limiterFor(key).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimitMiddleware) limiterFor(key string) *rate.Limiter {
	now := rl.clock.Now().UnixNano()

	rl.mu.RLock()
	client, ok := rl.limiters[key]
	rl.mu.RUnlock()
	if ok {
		client.lastSeen.Store(now)
		return client.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	// Another request may have created it between the locks.
	if client, ok = rl.limiters[key]; !ok {
		client = &rateLimitClient{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[key] = client
	}
	client.lastSeen.Store(now)
	return client.limiter
}

// cleanup periodically evicts limiters unused for more than ten minutes.
func (rl *RateLimitMiddleware) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			cutoff := rl.clock.Now().Add(-10 * time.Minute).UnixNano()
			rl.mu.Lock()
			for key, client := range rl.limiters {
				if client.lastSeen.Load() < cutoff {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopChan:
			return
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTick.Stop()
		close(rl.stopChan)
	})
}
