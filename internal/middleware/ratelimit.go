package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Every request here fans out into multiple LLM calls upstream, so the
// inbound limit is deliberately low.
const (
	requestsPerMinute = 30
	burstSize         = 5
)

// RateLimit middleware for basic per-IP rate limiting. In-memory only;
// limits are per instance, not shared.
func RateLimit(next http.Handler) http.Handler {
	limiter := newIPRateLimiter(requestsPerMinute, burstSize)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)

		if !limiter.Allow(clientIP) {
			log.Warn().
				Str("client_ip", clientIP).
				Str("url", r.URL.String()).
				Msg("Rate limit exceeded")

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)

			errorResponse := map[string]interface{}{
				"error": "rate limit exceeded, please try again later",
				"netas": []interface{}{},
			}

			if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the real client IP address
func getClientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		// Take the first IP in the chain
		if commaIndex := strings.IndexByte(forwardedFor, ','); commaIndex > 0 {
			return forwardedFor[:commaIndex]
		}
		return forwardedFor
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}

// ipRateLimiter is a token-bucket limiter keyed by client IP.
type ipRateLimiter struct {
	requestsPerMinute int
	burstSize         int

	mu      sync.Mutex
	clients map[string]*clientLimit
}

type clientLimit struct {
	tokens     int
	lastRefill time.Time
}

func newIPRateLimiter(requestsPerMinute, burstSize int) *ipRateLimiter {
	return &ipRateLimiter{
		requestsPerMinute: requestsPerMinute,
		burstSize:         burstSize,
		clients:           make(map[string]*clientLimit),
	}
}

func (rl *ipRateLimiter) Allow(clientIP string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimit{
			tokens:     rl.burstSize,
			lastRefill: now,
		}
		rl.clients[clientIP] = client
	}

	// Refill tokens based on time passed
	timePassed := now.Sub(client.lastRefill)
	tokensToAdd := int(timePassed.Minutes() * float64(rl.requestsPerMinute))

	if tokensToAdd > 0 {
		client.tokens = min(client.tokens+tokensToAdd, rl.burstSize)
		client.lastRefill = now
	}

	if client.tokens > 0 {
		client.tokens--
		return true
	}

	return false
}
