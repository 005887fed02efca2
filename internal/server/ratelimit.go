package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resumelift/internal/errors"
	"resumelift/internal/observability"

	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 10 * time.Minute

	limitTypeAPIKey = "api_key"
	limitTypeIP     = "ip"
)

// RateLimiter keeps one token bucket per client key (API key or IP)
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	done     chan struct{}
	once     sync.Once
	logger   *errors.Logger
}

// NewRateLimiter creates a limiter allowing requestsPerMin requests per
// minute with bursts of up to burstCapacity.
func NewRateLimiter(requestsPerMin, burstCapacity int, logger *errors.Logger) *RateLimiter {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	if burstCapacity <= 0 {
		burstCapacity = 1
	}

	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burstCapacity,
		done:     make(chan struct{}),
		logger:   logger,
	}

	go rl.cleanupRoutine(limiterCleanupInterval)
	return rl
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	rl.lastSeen[key] = time.Now()

	return limiter
}

// Allow reports whether a request for key may proceed. It never blocks.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]any{
		"enabled":         true,
		"active_limiters": len(rl.limiters),
		"rate_per_second": float64(rl.rate),
		"rate_per_minute": float64(rl.rate) * 60.0,
		"burst_capacity":  rl.burst,
	}
}

func (rl *RateLimiter) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(interval)
		case <-rl.done:
			return
		}
	}
}

// cleanup drops limiters idle for longer than evictionAge
func (rl *RateLimiter) cleanup(evictionAge time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, lastSeen := range rl.lastSeen {
		if now.Sub(lastSeen) > evictionAge {
			delete(rl.limiters, key)
			delete(rl.lastSeen, key)
		}
	}

	rl.logger.Debug("Rate limiter cleanup completed",
		"remaining_limiters", len(rl.limiters))
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.done) })
}

// rateLimitMiddleware rejects requests over the per-client budget with 429
// and counts every rejection.
func (s *Server) rateLimitMiddleware(metrics *observability.Metrics) func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled || s.RateLimiter == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key, limitType := getRateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				metrics.RecordRateLimitHit(r.Context(), limitType)
				loggerFromRequest(r, s.Logger).Info("Rate limit exceeded",
					"limit_type", limitType,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r))
				writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// getRateLimitKey picks the bucket for a request: the API key when enabled
// and present, otherwise the client IP when enabled.
func getRateLimitKey(r *http.Request, byAPIKey, byIP bool) (key, limitType string) {
	if byAPIKey {
		if apiKey := apiKeyFromRequest(r); apiKey != "" {
			return "api:" + apiKey, limitTypeAPIKey
		}
	}

	if byIP {
		return "ip:" + getClientIP(r), limitTypeIP
	}

	return "", ""
}

// apiKeyFromRequest reads X-API-Key, then a Bearer token
func apiKeyFromRequest(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP parses the first valid IP from a comma-separated list
func parseFirstIP(ips string) string {
	for ip := range strings.SplitSeq(ips, ",") {
		ip = strings.TrimSpace(ip)
		if parsed := net.ParseIP(ip); parsed != nil {
			return ip
		}
	}
	return ""
}
